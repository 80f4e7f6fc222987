package tui

import "github.com/charmbracelet/lipgloss"

var (
	textColor    = lipgloss.Color("#F0F0F0")
	mutedColor   = lipgloss.Color("#6E6E6E")
	accentColor  = lipgloss.Color("#C89A3A")
	correctColor = lipgloss.Color("#52C41A")
	wrongColor   = lipgloss.Color("#FF4D4F")
	trackColor   = lipgloss.Color("#4A4A4A")
	barColor     = lipgloss.Color("#36CFC9")

	titleStyle    = lipgloss.NewStyle().Foreground(textColor).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle    = lipgloss.NewStyle().Foreground(wrongColor)
	correctStyle  = lipgloss.NewStyle().Foreground(correctColor).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(wrongColor).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(textColor).Bold(true)
	inputStyle    = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))

	selectedOpStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accentColor)
	unselectedOpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(trackColor)

	panelStyle = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(trackColor)
	correctPanelStyle = panelStyle.BorderForeground(correctColor)
	wrongPanelStyle   = panelStyle.BorderForeground(wrongColor)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(trackColor)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(textColor).Bold(true)
)
