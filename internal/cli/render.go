package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/voxhire/voxhire-go/pkg/core/types"
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	aiLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	userLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	recordingBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	processingBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	noticeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginTop(1)

	ratingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderResult formats a final evaluation for the terminal.
func renderResult(r *types.InterviewResult) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Evaluation"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Rating: %s / 10\n", ratingStyle.Render(fmt.Sprintf("%.1f", r.Rating))))

	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, item := range items {
			b.WriteString("  - " + item + "\n")
		}
	}
	writeList("Strengths", r.Strengths)
	writeList("Weaknesses", r.Weaknesses)
	writeList("Suggestions", r.Suggestions)
	writeList("Recommended roles", r.RecommendedRoles)

	return b.String()
}

// renderHistory formats past interviews, one block per entry.
func renderHistory(items []types.HistoryItem) string {
	if len(items) == 0 {
		return "No interviews yet. Run `voxhire interview` to get started."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Interview History"))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString(fmt.Sprintf("\n%s  %s\n", sectionStyle.Render(item.Date), ratingStyle.Render(fmt.Sprintf("%.1f/10", item.Rating))))
		if item.Feedback != "" {
			b.WriteString("  " + item.Feedback + "\n")
		}
		if len(item.JobSuggestions) > 0 {
			b.WriteString("  Roles: " + strings.Join(item.JobSuggestions, ", ") + "\n")
		}
	}
	return b.String()
}
