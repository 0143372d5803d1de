package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const separatorWidth = 50

var (
	welcomeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("6"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	humanLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)

	aiLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)

	systemLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3")).
				Bold(true)

	separator = infoStyle.Render(strings.Repeat("─", separatorWidth))
)
