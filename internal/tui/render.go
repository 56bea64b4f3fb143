package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eugenenazirov/paper-carbon/internal/view"
)

// Color palette shared by both modes; the accent and surface come from the theme.
var (
	ColorLabel  = lipgloss.Color("245")
	ColorValue  = lipgloss.Color("252")
	ColorMuted  = lipgloss.Color("241")
	ColorBorder = lipgloss.Color("240")
)

const helpText = "tab/shift+tab move • ←/→ change • space switch mode • enter calculate • esc close • q quit"

// Render draws the styled form. sheetsInput is the rendered text input.
func Render(page view.Page, focus Field, sheetsInput string, width int) string {
	accent := lipgloss.Color(page.Theme.Accent)
	surface := lipgloss.Color(page.Theme.Surface)

	titleStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel).Width(14)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)
	focusStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)

	row := func(field Field, label, value string) string {
		marker := "  "
		style := valueStyle
		if field == focus {
			marker = focusStyle.Render("▸ ")
			style = focusStyle
		}
		return marker + labelStyle.Render(label) + style.Render(value)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(page.Theme.Title))
	b.WriteString("\n\n")
	b.WriteString(row(FieldSize, "Paper size", selectorValue(page.Sizes)))
	b.WriteString("\n")
	b.WriteString(row(FieldGSM, "Paper weight", selectorValue(page.GSMs)))
	b.WriteString("\n")
	b.WriteString(row(FieldSheets, "Sheets", sheetsInput))
	b.WriteString("\n")
	b.WriteString(row(FieldMode, "Kids mode", modeValue(page.Kids)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(accent).Render("[ " + page.Theme.ButtonLabel + " ]"))
	b.WriteString("\n")

	if page.Result != nil {
		panel := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			MarginTop(1)
		if width > 4 {
			panel = panel.MaxWidth(width)
		}
		b.WriteString(panel.Render(strings.Join(resultLines(page.Result), "\n")))
		b.WriteString("\n")
	}

	if page.Overlay != nil {
		overlay := lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Background(surface).
			Foreground(lipgloss.Color("0")).
			Padding(1, 3).
			MarginTop(1).
			Align(lipgloss.Center)
		b.WriteString(overlay.Render(strings.Join(overlayLines(page.Overlay, "[ "+page.Overlay.Button+" ]"), "\n")))
		b.WriteString("\n")
	}

	if page.PlaySound {
		b.WriteString(mutedStyle.Render("🔔"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(helpText))
	return b.String()
}

// RenderPlain prints the page as plain text without colors or input widgets.
func RenderPlain(page view.Page) string {
	var b strings.Builder
	b.WriteString(page.Theme.Title)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Paper size: %s\n", selectedLabel(page.Sizes))
	fmt.Fprintf(&b, "Paper weight: %s\n", selectedLabel(page.GSMs))
	fmt.Fprintf(&b, "Sheets: %s\n", page.SheetText)

	if page.Result == nil {
		b.WriteString("Enter a whole number of sheets greater than zero to see your savings.\n")
		return b.String()
	}

	b.WriteString("\n")
	for _, line := range resultLines(page.Result) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if page.Overlay != nil {
		b.WriteString("\n")
		for _, line := range overlayLines(page.Overlay, "") {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func resultLines(result *view.ResultPanel) []string {
	return []string{
		result.SavedLine,
		result.WeightLine,
		result.Impact,
		result.Status,
	}
}

func overlayLines(overlay *view.OverlayPanel, button string) []string {
	lines := []string{overlay.Title, overlay.Badge}
	if overlay.FunFact != "" {
		lines = append(lines, overlay.FunFact)
	}
	if button != "" {
		lines = append(lines, "", button)
	}
	return lines
}

func selectorValue(options []view.Option) string {
	return "‹ " + selectedLabel(options) + " ›"
}

func selectedLabel(options []view.Option) string {
	for _, o := range options {
		if o.Selected {
			return o.Label
		}
	}
	return "-"
}

func modeValue(kids bool) string {
	if kids {
		return "[x] on"
	}
	return "[ ] off"
}
