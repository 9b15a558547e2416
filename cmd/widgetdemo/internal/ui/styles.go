// Package ui renders the terminal side of the widgetdemo command: the styled
// panel listing and the interactive panel picker.
package ui

import "github.com/charmbracelet/lipgloss"

// Colors follow the page's default theme.
const (
	colorPrimary lipgloss.Color = "#F63366"
	colorText    lipgloss.Color = "#FAFAFA"
	colorMuted   lipgloss.Color = "#8B8D98"
	colorSurface lipgloss.Color = "#262730"
	colorSuccess lipgloss.Color = "#21C354"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	nameStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	descStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	openStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	closedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	cursorStyle   = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(colorMuted).Background(colorSurface).Padding(0, 1)
	listBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface).Padding(0, 1)
	checkedMark   = "[x]"
	uncheckedMark = "[ ]"
)
