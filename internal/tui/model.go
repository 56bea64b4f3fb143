package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/eugenenazirov/paper-carbon/internal/calculator"
	"github.com/eugenenazirov/paper-carbon/internal/tracker"
	"github.com/eugenenazirov/paper-carbon/internal/view"
)

// Field identifies a focusable row of the form.
type Field int

const (
	// FieldSize is the paper size selector.
	FieldSize Field = iota
	// FieldGSM is the paper weight selector.
	FieldGSM
	// FieldSheets is the sheet count text input.
	FieldSheets
	// FieldMode is the kids/standard switch.
	FieldMode

	fieldCount
)

const (
	sheetsCharLimit  = 9
	sheetsInputWidth = 12
	defaultWidth     = 60
)

// Model is the Bubble Tea model for the interactive form.
type Model struct {
	tracker *tracker.Tracker
	assets  view.Assets

	focus  Field
	sheets textinput.Model

	// cue is set when the last calculation requested the reward sound.
	cue bool

	width    int
	quitting bool
}

// NewModel creates a Model driving tr. The sheet input starts with the tracker's current text.
func NewModel(tr *tracker.Tracker, assets view.Assets) *Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 100"
	ti.CharLimit = sheetsCharLimit
	ti.Width = sheetsInputWidth
	ti.Prompt = ""
	ti.SetValue(tr.Form().SheetText)
	ti.Focus()

	return &Model{
		tracker: tr,
		assets:  assets,
		focus:   FieldSheets,
		sheets:  ti,
		width:   defaultWidth,
	}
}

// Init starts the cursor blink of the sheet input.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
//
//nolint:exhaustive // Only handling keys the form reacts to.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.cue = false

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		if m.overlayShown() {
			m.tracker.Dismiss()
			return m, nil
		}
		m.cue = m.tracker.Calculate().Cue
		return m, nil

	case tea.KeyEsc:
		m.tracker.Dismiss()
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case tea.KeyLeft:
		if m.focus != FieldSheets {
			m.step(-1)
			return m, nil
		}

	case tea.KeyRight:
		if m.focus != FieldSheets {
			m.step(1)
			return m, nil
		}

	case tea.KeySpace:
		if m.focus != FieldSheets {
			m.tracker.ToggleMode()
			return m, nil
		}

	case tea.KeyRunes:
		if m.focus != FieldSheets {
			if string(msg.Runes) == "q" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.focus != FieldSheets {
		return m, nil
	}

	var cmd tea.Cmd
	m.sheets, cmd = m.sheets.Update(msg)
	m.tracker.SetSheetText(m.sheets.Value())
	return m, cmd
}

func (m *Model) setFocus(field Field) tea.Cmd {
	m.focus = field
	if field == FieldSheets {
		return m.sheets.Focus()
	}
	m.sheets.Blur()
	return nil
}

// step moves the focused selector by delta, wrapping around the option list.
func (m *Model) step(delta int) {
	form := m.tracker.Form()

	switch m.focus {
	case FieldSize:
		sizes := calculator.PaperSizes()
		_ = m.tracker.SetSize(sizes[wrap(slices.Index(sizes, form.Size)+delta, len(sizes))])
	case FieldGSM:
		weights := calculator.GSMOptions()
		_ = m.tracker.SetGSM(weights[wrap(slices.Index(weights, form.GSM)+delta, len(weights))])
	case FieldMode:
		m.tracker.ToggleMode()
	case FieldSheets:
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (m *Model) overlayShown() bool {
	_, shown := m.tracker.State().Overlay.(tracker.Shown)
	return shown
}

// Page returns the view model of the current state.
func (m *Model) Page() view.Page {
	page := view.Build(m.tracker.State(), m.assets)
	page.PlaySound = m.cue
	return page
}

// Focus returns the focused field.
func (m *Model) Focus() Field {
	return m.focus
}

// View renders the current view.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return Render(m.Page(), m.focus, m.sheets.View(), m.width)
}
