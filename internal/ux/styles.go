package ux

import "github.com/charmbracelet/lipgloss"

// Styles holds the terminal styles used for human-readable output.
type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Skip    lipgloss.Style
	Forced  lipgloss.Style
}

// NewStyles returns the default style set. With noColor set every style
// renders as plain text, which keeps output stable in pipes and CI logs.
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:   plain,
			Header:  plain,
			Label:   plain,
			Success: plain,
			Failure: plain,
			Skip:    plain,
			Forced:  plain,
		}
	}
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		Header:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Skip:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Forced:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	}
}

// StatusBadge renders a short pass/fail/skip marker for a criterion outcome.
func (s Styles) StatusBadge(success, skipped bool) string {
	switch {
	case skipped:
		return s.Skip.Render("SKIP")
	case success:
		return s.Success.Render("PASS")
	default:
		return s.Failure.Render("FAIL")
	}
}
