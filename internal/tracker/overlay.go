package tracker

import "github.com/eugenenazirov/paper-carbon/internal/badges"

// Overlay is the badge overlay state: either Hidden or Shown.
type Overlay interface {
	overlay()
}

// Hidden means no overlay is displayed.
type Hidden struct{}

// Shown displays a freshly earned badge until the user dismisses it.
type Shown struct {
	Badge badges.Tier

	// FunFact is picked once when the overlay is shown.
	FunFact string
}

func (Hidden) overlay() {}
func (Shown) overlay()  {}
