package view

import "github.com/eugenenazirov/paper-carbon/internal/tracker"

// Theme is the copy and colour scheme for one mode.
type Theme struct {
	Title       string
	ButtonLabel string

	// Accent and Surface are hex colours for renderers that need them.
	Accent  string
	Surface string

	// ShowImage enables the decorative paper stack image.
	ShowImage bool

	// ShowFunFact adds a fun fact to the badge overlay.
	ShowFunFact bool
}

var themes = map[tracker.Mode]Theme{
	tracker.ModeKids: {
		Title:       "Carbon Saver Fun Zone 🌿",
		ButtonLabel: "✨ Show Me My Magic ✨",
		Accent:      "#CA8A04",
		Surface:     "#FEF9C3",
		ShowImage:   true,
		ShowFunFact: true,
	},
	tracker.ModeStandard: {
		Title:       "♻️ Carbon Footprint Tracker",
		ButtonLabel: "Calculate CO₂ Saved",
		Accent:      "#15803D",
		Surface:     "#DCFCE7",
	},
}

// ThemeFor returns the theme of mode. Unknown modes fall back to kids.
func ThemeFor(mode tracker.Mode) Theme {
	if theme, ok := themes[mode]; ok {
		return theme
	}
	return themes[tracker.ModeKids]
}
