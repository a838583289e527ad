package formatter

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/threadlog/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Slot glyphs, one terminal cell each.
const (
	glyphCompleted  = "█"
	glyphInProgress = "▓"
	glyphBreak      = "░"
	glyphPending    = "·"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// StatusStyle returns the style used for a slot status.
func StatusStyle(s domain.Status) lipgloss.Style {
	switch s {
	case domain.StatusCompleted:
		return StyleGreen
	case domain.StatusInProgress:
		return StyleYellow
	case domain.StatusBreak:
		return StyleBlue
	default:
		return StyleDim
	}
}

// StatusGlyph renders one slot cell.
func StatusGlyph(s domain.Status) string {
	switch s {
	case domain.StatusCompleted:
		return StyleGreen.Render(glyphCompleted)
	case domain.StatusInProgress:
		return StyleYellow.Render(glyphInProgress)
	case domain.StatusBreak:
		return StyleBlue.Render(glyphBreak)
	default:
		return StyleDim.Render(glyphPending)
	}
}

// StatusPill returns a colored label such as "● completed".
func StatusPill(s domain.Status) string {
	switch s {
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ completed")
	case domain.StatusInProgress:
		return StyleYellow.Render("● in-progress")
	case domain.StatusBreak:
		return StyleBlue.Render("◌ break")
	default:
		return StyleDim.Render("○ " + string(s))
	}
}

// ThreadStyle colors an employee's label with their thread color, falling
// back to the foreground color for anything that is not #RRGGBB.
func ThreadStyle(color string) lipgloss.Style {
	if !hexColor.MatchString(color) {
		return StyleFg
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
