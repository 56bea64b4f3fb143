package tracker

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode name is neither kids nor standard.
var ErrUnknownMode = errors.New("mode must be kids or standard")

// Mode selects the presentation theme. It never changes calculated values.
type Mode string

const (
	// ModeKids is the playful theme with a reward sound and fun facts.
	ModeKids Mode = "kids"
	// ModeStandard is the plain theme.
	ModeStandard Mode = "standard"
)

// Modes lists every mode, default first.
func Modes() []Mode {
	return []Mode{ModeKids, ModeStandard}
}

// ParseMode resolves a mode name, ignoring case.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeKids:
		return ModeKids, nil
	case ModeStandard:
		return ModeStandard, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnknownMode, raw)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeKids {
		return ModeStandard
	}
	return ModeKids
}
