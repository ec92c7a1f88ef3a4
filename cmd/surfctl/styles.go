package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/couchcryptid/surf-conditions-service/internal/domain"
)

var (
	colorExcellent = lipgloss.Color("#6BCF7F") // Green
	colorGood      = lipgloss.Color("#00BFFF") // Deep sky blue
	colorAverage   = lipgloss.Color("#FFD93D") // Yellow
	colorPoor      = lipgloss.Color("#FF6B6B") // Red
	colorStorm     = lipgloss.Color("#B57EDC") // Purple
	colorMuted     = lipgloss.Color("#6C757D") // Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGood)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// qualityStyle colours text by quality tag.
func qualityStyle(q domain.Quality) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch q {
	case domain.QualityExcellent:
		return s.Foreground(colorExcellent)
	case domain.QualityGood:
		return s.Foreground(colorGood)
	case domain.QualityAverage:
		return s.Foreground(colorAverage)
	case domain.QualityPoor:
		return s.Foreground(colorPoor)
	case domain.QualityStorm:
		return s.Foreground(colorStorm)
	default:
		return s
	}
}

func renderResult(r domain.ScoreResult) string {
	return qualityStyle(r.Quality).Render(r.String())
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value
}
