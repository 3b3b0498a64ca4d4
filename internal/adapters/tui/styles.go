package tui

import "github.com/charmbracelet/lipgloss"

var (
	iris  = lipgloss.Color("#9D79D6")
	green = lipgloss.Color("#81B29A")
	slate = lipgloss.Color("#8A8F98")
	red   = lipgloss.Color("#E26A5A")
	white = lipgloss.Color("#FFFFFF")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(iris).
			Foreground(white)

	widgetNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(iris)

	cachedStyle = lipgloss.NewStyle().
			Foreground(slate).
			Faint(true)

	countStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(slate).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(slate).
			Padding(0, 1).
			MarginRight(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(slate).
			Faint(true)
)
