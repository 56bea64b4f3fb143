package tracker

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/eugenenazirov/paper-carbon/internal/badges"
	"github.com/eugenenazirov/paper-carbon/internal/calculator"
	"github.com/eugenenazirov/paper-carbon/internal/cue"
)

var funFacts = []string{
	"Recycling one ton of paper saves 17 trees! 🌳",
	"You saved energy equal to running a fan all day! 🌬️",
	"Paper can be recycled up to 7 times! ♻️",
	"One tree makes 8,500 sheets of paper! 😮",
}

// FunFacts returns the facts shown with an earned badge.
func FunFacts() []string {
	out := make([]string, len(funFacts))
	copy(out, funFacts)
	return out
}

// Form is the set of user-editable fields.
type Form struct {
	Size      calculator.PaperSize
	GSM       calculator.GSM
	SheetText string
	Mode      Mode
}

// DefaultForm is the form shown before any edit.
func DefaultForm() Form {
	return Form{
		Size: calculator.A4,
		GSM:  80,
		Mode: ModeKids,
	}
}

// Validate checks that the enumerated fields hold offered values.
// SheetText is free text and is only checked when calculating.
func (f Form) Validate() error {
	if !f.Size.Valid() {
		return fmt.Errorf("%w: got %q", calculator.ErrUnknownPaperSize, f.Size)
	}
	if !f.GSM.Valid() {
		return fmt.Errorf("%w: got %d", calculator.ErrUnsupportedGSM, f.GSM)
	}
	if f.Mode != ModeKids && f.Mode != ModeStandard {
		return fmt.Errorf("%w: got %q", ErrUnknownMode, f.Mode)
	}
	return nil
}

// State is a read-only snapshot of a tracker.
type State struct {
	Form Form

	// Result is nil when no valid calculation is displayed.
	Result *calculator.Result

	// Status is the badge matching the displayed result, if any.
	Status  *badges.Tier
	Overlay Overlay
}

// Outcome describes what a Calculate call changed.
type Outcome struct {
	Result calculator.Result
	OK     bool

	// Earned is the badge that opened the overlay, nil when none did.
	Earned *badges.Tier

	// Cue reports whether the reward sound was requested.
	Cue bool
}

// Tracker is the state machine behind the paper carbon form.
type Tracker struct {
	form    Form
	result  *calculator.Result
	overlay Overlay

	table  badges.Table
	pick   func(n int) int
	player cue.Player
	logger *zap.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBadges sets the tier table used for both the overlay and the inline status.
func WithBadges(table badges.Table) Option {
	return func(t *Tracker) {
		t.table = table
	}
}

// WithMode sets the initial mode.
func WithMode(mode Mode) Option {
	return func(t *Tracker) {
		t.form.Mode = mode
	}
}

// WithCue sets the player fired after a successful calculation in kids mode.
func WithCue(player cue.Player) Option {
	return func(t *Tracker) {
		t.player = player
	}
}

// WithFactPicker overrides the random fun fact choice, primarily for tests.
// pick receives the number of facts and returns an index.
func WithFactPicker(pick func(n int) int) Option {
	return func(t *Tracker) {
		t.pick = pick
	}
}

// WithLogger sets the logger used for cue diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// New returns a tracker showing the default form with no result and the overlay hidden.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		form:    DefaultForm(),
		overlay: Hidden{},
		table:   badges.Default(),
		pick:    rand.IntN,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetSize selects a paper size.
func (t *Tracker) SetSize(size calculator.PaperSize) error {
	if !size.Valid() {
		return fmt.Errorf("%w: got %q", calculator.ErrUnknownPaperSize, size)
	}
	t.form.Size = size
	return nil
}

// SetGSM selects a paper weight.
func (t *Tracker) SetGSM(gsm calculator.GSM) error {
	if !gsm.Valid() {
		return fmt.Errorf("%w: got %d", calculator.ErrUnsupportedGSM, gsm)
	}
	t.form.GSM = gsm
	return nil
}

// SetSheetText stores the sheet count text as typed.
func (t *Tracker) SetSheetText(text string) {
	t.form.SheetText = text
}

// SetMode selects the presentation mode.
func (t *Tracker) SetMode(mode Mode) error {
	parsed, err := ParseMode(string(mode))
	if err != nil {
		return err
	}
	t.form.Mode = parsed
	return nil
}

// ToggleMode switches between kids and standard mode.
func (t *Tracker) ToggleMode() {
	t.form.Mode = t.form.Mode.Toggle()
}

// Apply replaces every form field at once. Nothing changes when form is invalid.
func (t *Tracker) Apply(form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	t.form = form
	return nil
}

// Form returns the current form fields.
func (t *Tracker) Form() Form {
	return t.form
}

// Calculate runs the calculator on the current form.
//
// An invalid sheet count clears the displayed result and leaves the overlay
// as it was. A valid one replaces the result; the overlay then shows the
// resolved badge, or hides when no badge applies. In kids mode the reward cue
// is fired without waiting for it.
func (t *Tracker) Calculate() Outcome {
	result, ok := calculator.CalculateText(t.form.Size, t.form.GSM, t.form.SheetText)
	if !ok {
		t.result = nil
		return Outcome{}
	}

	t.result = &result
	outcome := Outcome{Result: result, OK: true}

	if tier, found := t.table.Resolve(result.CO2SavedKg); found {
		t.overlay = Shown{Badge: tier, FunFact: t.pickFact()}
		outcome.Earned = &tier
	} else {
		t.overlay = Hidden{}
	}

	if t.form.Mode == ModeKids {
		outcome.Cue = true
		cue.Fire(t.player, t.logger)
	}

	return outcome
}

// Dismiss hides the overlay. It reports whether an overlay was shown.
func (t *Tracker) Dismiss() bool {
	_, shown := t.overlay.(Shown)
	t.overlay = Hidden{}
	return shown
}

// State returns a snapshot of the tracker.
func (t *Tracker) State() State {
	state := State{
		Form:    t.form,
		Overlay: t.overlay,
	}
	if t.result != nil {
		result := *t.result
		state.Result = &result
		if tier, ok := t.table.Resolve(result.CO2SavedKg); ok {
			state.Status = &tier
		}
	}
	return state
}

func (t *Tracker) pickFact() string {
	idx := t.pick(len(funFacts))
	if idx < 0 || idx >= len(funFacts) {
		idx = 0
	}
	return funFacts[idx]
}
