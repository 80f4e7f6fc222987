// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/mathrun/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes answers per minute and accuracy for a session.
func SessionMetrics(score model.Score, duration time.Duration) (perMinute, accuracy float64) {
	accuracy = score.Accuracy()
	minutes := duration.Minutes()
	if minutes <= 0 {
		return 0, accuracy
	}
	return float64(score.Total()) / minutes, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := i + 1
		if i >= window {
			sum -= values[i-window]
			den = window
		}
		out[i] = sum / float64(den)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the end-of-session summary.
func RenderSummary(w io.Writer, r Report) error {
	perMinute, acc := SessionMetrics(r.Score, r.Duration)
	lines := []string{
		"Summary",
		fmt.Sprintf("Correct: %d  Incorrect: %d  (timed out: %d)", r.Score.Correct, r.Score.Incorrect, r.TimedOut()),
		fmt.Sprintf("Accuracy: %.1f%%", acc*100),
		fmt.Sprintf("Pace: %.1f answers/min over %s", perMinute, r.Duration.Round(time.Second)),
	}
	if r.Settings.Digits > 0 {
		lines = append(lines, fmt.Sprintf("Settings: %s · %d digit(s) · %s per question",
			model.FormatOperations(r.Settings.Operations), r.Settings.Digits, r.Settings.TimePerQuestion))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if r.Score.Total() == 0 {
		_, err := fmt.Fprintln(w, "No questions answered.")
		return err
	}
	if err := RenderOperationTable(w, r.Operations); err != nil {
		return err
	}
	if len(r.ResponseTimes) > 1 {
		if _, err := fmt.Fprintf(w, "Response time  [%s]\n\n", Sparkline(MovingAverage(r.ResponseTimes, 3))); err != nil {
			return err
		}
	}
	if weak := SelectWeakOperations(r.Operations, 1); len(weak) > 0 {
		if _, err := fmt.Fprintf(w, "Practice next: %s (%s)\n", weak[0].Symbol(), weak[0]); err != nil {
			return err
		}
	}
	return nil
}

// RenderOperationTable prints per-operation aggregates.
func RenderOperationTable(w io.Writer, aggs []model.OperationAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No operation stats found.")
		return err
	}
	headers := []string{"Op", "Accuracy", "Avg Time (ms)", "Correct", "Incorrect", "Timed Out"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		accCell := "-"
		if agg.Total() > 0 {
			accCell = fmt.Sprintf("%.1f%%", agg.Accuracy()*100)
		}
		rows = append(rows, []string{
			agg.Operation.Symbol(),
			accCell,
			fmt.Sprintf("%.0f", agg.AvgResponseMs()),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			fmt.Sprintf("%d", agg.TimedOut),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
