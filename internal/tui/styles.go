package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorNavy   = lipgloss.Color("#1B2A49")
	ColorWhite  = lipgloss.Color("#F5F5F5")
	ColorGray   = lipgloss.Color("245")
	ColorBlue   = lipgloss.Color("39")
	ColorGreen  = lipgloss.Color("#21D955")
	ColorOrange = lipgloss.Color("208")
	ColorRed    = lipgloss.Color("196")
)

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	activeSectionStyle = sectionStyle.
				BorderForeground(ColorGreen)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	chartTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	historicalLineStyle = lipgloss.NewStyle().Foreground(ColorBlue)
	forecastLineStyle   = lipgloss.NewStyle().Foreground(ColorOrange)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	loadingStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	errorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(ColorWhite).
			Padding(0, 1)
)
