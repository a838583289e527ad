package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/threadlog/internal/cli/formatter"
	"github.com/alexanderramin/threadlog/internal/domain"
)

// threadlogHuhTheme returns a huh theme using the formatter palette.
func threadlogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateHour accepts an hour slot between 0 and 23.
func validateHour(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	return domain.ValidateHour(v)
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	_, err := domain.ParseDate(s)
	return err
}

// statusFlag is a pflag.Value that only accepts known slot statuses.
type statusFlag struct {
	value domain.Status
}

var _ pflag.Value = (*statusFlag)(nil)

func newStatusFlag(def domain.Status) *statusFlag {
	return &statusFlag{value: def}
}

func (f *statusFlag) String() string { return string(f.value) }

// Set forgives case and surrounding space typed on the command line.
func (f *statusFlag) Set(s string) error {
	st, err := domain.ParseStatus(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	f.value = st
	return nil
}

func (f *statusFlag) Type() string { return "status" }

// statusOptions lists every status for a huh select.
func statusOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		opts = append(opts, huh.NewOption(string(s), string(s)))
	}
	return opts
}
