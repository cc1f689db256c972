package sync

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	ruleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a3850"))
	courseStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
)

const reportRule = "-------------------------------------"

// Render formats the sync report, grouped by course.
func Render(res *Result) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("🎯 Canvas → Reminders Sync Summary"))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(reportRule))
	b.WriteString("\n")

	if res.TotalAdded == 0 {
		b.WriteString(successStyle.Render("✅ 0 reminders added — you're all caught up!"))
		b.WriteString("\n")
	} else {
		b.WriteString(successStyle.Render(fmt.Sprintf("✅ %d reminders added:", res.TotalAdded)))
		b.WriteString("\n\n")
		for _, course := range res.CourseOrder {
			b.WriteString(courseStyle.Render("📘 " + course + ":"))
			b.WriteString("\n")
			for _, r := range res.ByCourse[course] {
				b.WriteString(fmt.Sprintf("   • %s (Due %s)\n", r.Title, r.DueDisplay))
			}
		}
		if res.Stats.Closest != nil {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(fmt.Sprintf(
				"Next up: %s for %s (due %s) · avg %.1f days out · most due on %s",
				res.Stats.Closest.Title, res.Stats.Closest.Course, res.Stats.Closest.DueDisplay,
				res.Stats.AvgDaysUntilDue, res.Stats.TopWeekday)))
			b.WriteString("\n")
		}
	}

	b.WriteString(ruleStyle.Render(reportRule))
	b.WriteString("\n")
	return b.String()
}

// RenderPlan formats the study plan as terminal markdown. Falls back to the
// raw text when the renderer is unavailable.
func RenderPlan(plan string) string {
	if plan == "" {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("🧠 AI Study Suggestion"))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(reportRule))
	b.WriteString("\n")

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if out, rerr := renderer.Render(plan); rerr == nil {
			b.WriteString(out)
		} else {
			b.WriteString(plan + "\n")
		}
	} else {
		b.WriteString(plan + "\n")
	}

	b.WriteString(ruleStyle.Render(reportRule))
	b.WriteString("\n")
	return b.String()
}
