package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathrun/internal/model"
)

const (
	barWidth    = 40
	cardsHeight = 4
	// summaryChromeHeight is the space around the summary viewport: cards,
	// blank lines and the help footer.
	summaryChromeHeight = cardsHeight + 4
)

func (m *Model) gameView() string {
	st := m.state
	score := fmt.Sprintf("%s %d   %s %d",
		correctStyle.Render("✓"), st.Score.Correct,
		wrongStyle.Render("✗"), st.Score.Incorrect)

	lines := []string{
		score,
		renderScoreBar(st.Score, barWidth),
		"",
		m.questionPanel(),
		"",
		renderCountdown(st.Remaining(m.now()), st.TurnDuration, barWidth),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) questionPanel() string {
	st := m.state
	if st.Question == nil {
		return panelStyle.Render(pendingStyle.Render("…"))
	}
	q := *st.Question
	text := fmt.Sprintf("%d %s %d = ", q.Num1, q.Operation.Symbol(), q.Num2)
	answer := pendingStyle.Render("?")
	if st.Input != "" {
		answer = inputStyle.Render(st.Input)
	}

	panel := panelStyle
	status := " "
	switch st.Feedback {
	case model.FeedbackCorrect:
		panel = correctPanelStyle
		status = correctStyle.Render("correct")
	case model.FeedbackIncorrect:
		panel = wrongPanelStyle
		status = wrongStyle.Render(fmt.Sprintf("answer was %d", q.Answer))
	}
	body := lipgloss.JoinVertical(lipgloss.Center, questionStyle.Render(text)+answer, status)
	return panel.Render(body)
}

// renderScoreBar splits width between correct and incorrect answers.
func renderScoreBar(score model.Score, width int) string {
	if score.Total() == 0 {
		return lipgloss.NewStyle().Background(trackColor).Render(strings.Repeat(" ", width))
	}
	good := int(float64(width)*score.Accuracy() + 0.5)
	good = max(0, min(good, width))
	return lipgloss.NewStyle().Background(correctColor).Render(strings.Repeat(" ", good)) +
		lipgloss.NewStyle().Background(wrongColor).Render(strings.Repeat(" ", width-good))
}

// renderCountdown draws the time left in the turn as a shrinking bar.
func renderCountdown(remaining, total time.Duration, width int) string {
	label := fmt.Sprintf("%4.1fs ", remaining.Seconds())
	barW := max(4, width-lipgloss.Width(label))
	frac := 0.0
	if total > 0 {
		frac = float64(remaining) / float64(total)
	}
	filled := int(float64(barW) * frac)
	filled = max(0, min(filled, barW))
	return mutedStyle.Render(label) +
		lipgloss.NewStyle().Background(barColor).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(trackColor).Render(strings.Repeat(" ", barW-filled))
}

func (m *Model) summaryView() string {
	r := m.report
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Correct", fmt.Sprintf("%d", r.Score.Correct)),
		metricCard("Incorrect", fmt.Sprintf("%d", r.Score.Incorrect)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", r.Score.Accuracy()*100)),
		metricCard("Time", r.Duration.Round(time.Second).String()),
	)
	parts := []string{cards, ""}
	if m.reportErr != "" {
		parts = append(parts, errorStyle.Render(m.reportErr))
	}
	parts = append(parts, m.viewport.View())
	return strings.Join(parts, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}
