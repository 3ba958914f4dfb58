package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the form's lipgloss styles
type Styles struct {
	Title          lipgloss.Style
	Label          lipgloss.Style
	FocusedLabel   lipgloss.Style
	FieldError     lipgloss.Style
	Button         lipgloss.Style
	FocusedButton  lipgloss.Style
	DisabledButton lipgloss.Style
	Status         lipgloss.Style
	Alert          lipgloss.Style
	Help           lipgloss.Style
}

// DefaultStyles returns the default color scheme
func DefaultStyles() Styles {
	return Styles{
		Title:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1),
		Label:         lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		FocusedLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		FieldError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(2),
		Button:        lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238")),
		FocusedButton: lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true),
		DisabledButton: lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("243")).
			Background(lipgloss.Color("236")).Italic(true),
		Status: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1).
			MarginTop(1),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("217")).
			Padding(0, 1).
			MarginTop(1),
		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1),
	}
}
