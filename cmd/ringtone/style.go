package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	muted lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value: lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		ok:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		err:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		muted: lipgloss.NewStyle().Faint(true),
	}
}

// field renders a "label: value" line.
func (s styles) field(label, value string) string {
	return s.label.Render(label+":") + " " + s.value.Render(value)
}
