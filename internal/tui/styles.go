package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vaigaworld/vaiga/internal/models"
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	oracleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)
)

var categoryIcons = map[models.ChoreCategory]string{
	models.CategoryCleaning: "🧹",
	models.CategoryCooking:  "🍳",
	models.CategoryHomework: "📚",
	models.CategoryBaking:   "🧁",
	models.CategoryTeaching: "👨‍🏫",
	models.CategoryOther:    "✨",
}

var severityLabels = map[models.Severity]string{
	models.SeverityMild:     "☁️ Small Tiff",
	models.SeverityModerate: "⛈️ Dispute",
	models.SeveritySevere:   "🔥 Serious Concern",
}

var climateLabels = map[models.EmotionalClimate]string{
	models.ClimateSunny:    "☀️ Sunny Vibe",
	models.ClimateBreezy:   "🌬️ Breezy & Good",
	models.ClimateOvercast: "⛅ A Bit Overcast",
	models.ClimateStormy:   "🌧️ Stormy Tensions",
	models.ClimateStarry:   "✨ Magical Harmony",
}

var travelLabels = map[models.TravelStatus]string{
	models.TravelNotPlanned: "Not yet planned",
	models.TravelPlanned:    "Planned",
	models.TravelDone:       "Done",
}
