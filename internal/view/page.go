package view

import (
	"fmt"
	"strconv"

	"github.com/eugenenazirov/paper-carbon/internal/badges"
	"github.com/eugenenazirov/paper-carbon/internal/calculator"
	"github.com/eugenenazirov/paper-carbon/internal/tracker"
)

// Fixed overlay copy.
const (
	OverlayTitle  = "🏅 Badge Unlocked!"
	OverlayButton = "Got it!"
)

// DefaultImageURL is the paper stack picture shown in kids mode.
const DefaultImageURL = "https://cdn-icons-png.flaticon.com/512/7952/7952033.png"

// Assets are the optional media referenced by a page.
type Assets struct {
	ImageURL string
	SoundURL string
}

// Option is one entry of a selection list.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ResultPanel is the rendered outcome of a successful calculation.
type ResultPanel struct {
	CO2Kg        float64
	WeightGrams  float64
	CO2Text      string
	WeightText   string
	SavedLine    string
	WeightLine   string
	Impact       string
	Status       string
	StatusEarned bool
	SizeLabel    string
	GSMLabel     string
	SheetsLabel  string
}

// OverlayPanel is the badge overlay content.
type OverlayPanel struct {
	Title   string
	Badge   string
	FunFact string
	Button  string
}

// Page is everything a front end needs to draw the form.
type Page struct {
	Mode      tracker.Mode
	Kids      bool
	Theme     Theme
	Sizes     []Option
	GSMs      []Option
	SheetText string
	ImageURL  string
	SoundURL  string

	// PlaySound is set by the caller when the page answers a calculation that fired the cue.
	PlaySound bool
	Result    *ResultPanel
	Overlay   *OverlayPanel
}

// Build derives a Page from state. It is pure: equal inputs give equal pages.
func Build(state tracker.State, assets Assets) Page {
	form := state.Form
	theme := ThemeFor(form.Mode)

	page := Page{
		Mode:      form.Mode,
		Kids:      form.Mode == tracker.ModeKids,
		Theme:     theme,
		Sizes:     sizeOptions(form.Size),
		GSMs:      gsmOptions(form.GSM),
		SheetText: form.SheetText,
		SoundURL:  assets.SoundURL,
	}
	if theme.ShowImage {
		page.ImageURL = assets.ImageURL
	}

	if state.Result != nil {
		page.Result = buildResult(form, *state.Result, state.Status)
	}

	if shown, ok := state.Overlay.(tracker.Shown); ok {
		panel := &OverlayPanel{
			Title:  OverlayTitle,
			Badge:  shown.Badge.String(),
			Button: OverlayButton,
		}
		if theme.ShowFunFact && shown.FunFact != "" {
			panel.FunFact = "💡 " + shown.FunFact
		}
		page.Overlay = panel
	}

	return page
}

func buildResult(form tracker.Form, result calculator.Result, status *badges.Tier) *ResultPanel {
	co2 := FormatKg(result.CO2SavedKg)
	weight := FormatGrams(result.PerSheetWeightGrams)

	panel := &ResultPanel{
		CO2Kg:       result.CO2SavedKg,
		WeightGrams: result.PerSheetWeightGrams,
		CO2Text:     co2,
		WeightText:  weight,
		SavedLine:   fmt.Sprintf("🌍 You saved %s kg of CO₂!", co2),
		WeightLine:  fmt.Sprintf("📄 Each %s sheet of %dgsm weighs %sg", form.Size, form.GSM, weight),
		Impact:      InterpretImpact(result.CO2SavedKg),
		Status:      "No badge yet, keep saving!",
		SizeLabel:   string(form.Size),
		GSMLabel:    fmt.Sprintf("%d gsm", form.GSM),
	}
	if sheets, ok := calculator.ParseSheetCount(form.SheetText); ok {
		panel.SheetsLabel = printer.Sprintf("%d sheets", sheets)
	}
	if status != nil {
		panel.Status = "Current badge: " + status.String()
		panel.StatusEarned = true
	}
	return panel
}

func sizeOptions(selected calculator.PaperSize) []Option {
	sizes := calculator.PaperSizes()
	options := make([]Option, 0, len(sizes))
	for _, size := range sizes {
		options = append(options, Option{
			Value:    string(size),
			Label:    string(size),
			Selected: size == selected,
		})
	}
	return options
}

func gsmOptions(selected calculator.GSM) []Option {
	weights := calculator.GSMOptions()
	options := make([]Option, 0, len(weights))
	for _, gsm := range weights {
		options = append(options, Option{
			Value:    strconv.Itoa(int(gsm)),
			Label:    fmt.Sprintf("%d gsm", gsm),
			Selected: gsm == selected,
		})
	}
	return options
}
