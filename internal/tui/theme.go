package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Green       = lipgloss.Color("#00FF41")
	BrightGreen = lipgloss.Color("#39FF14")
	DarkGreen   = lipgloss.Color("#008F11")
	DimGreen    = lipgloss.Color("#003B00")
	Cyan        = lipgloss.Color("#00D4AA")
	White       = lipgloss.Color("#e0e0e0")

	// Banner
	BannerStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	// Menu entries
	MenuNumberStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	MenuItemStyle = lipgloss.NewStyle().
			Foreground(White)

	// Input prompts
	PromptStyle = lipgloss.NewStyle().
			Foreground(Cyan)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	// Error
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4136")).
			Bold(true)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(DarkGreen)

	LabelStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	PickerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGreen).
			Padding(0, 1)
)

const Title = "=== Real-Time Feedback Loop for Developers ==="
