// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/recite/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	curveLabelWidth     = 10
	minCurveWidth       = 10
	terminalWidthBackup = 80
)

// SessionMetrics computes accuracy and graded drills per minute for a session.
func SessionMetrics(correct, incorrect int, durationMs int64) (accuracy, perMinute float64) {
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return accuracy, 0
	}
	minutes := float64(durationMs) / 60000.0
	perMinute = den / minutes
	return accuracy, perMinute
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// CurveWidthFor returns the sparkline width for a given total width.
func CurveWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	return max(minCurveWidth, totalWidth-curveLabelWidth-2)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalAcc, totalRate float64
	bestAcc := 0.0
	drills := 0
	docs := map[string]struct{}{}
	for _, s := range sessions {
		acc, rate := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		totalAcc += acc
		totalRate += rate
		bestAcc = math.Max(bestAcc, acc)
		drills += s.Correct + s.Incorrect
		docs[s.Document] = struct{}{}
	}
	count := float64(len(sessions))
	latest := sessions[len(sessions)-1]
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Documents: %d", len(docs)),
		fmt.Sprintf("Graded drills: %d", drills),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		fmt.Sprintf("Best Accuracy: %.2f%%", bestAcc*100),
		fmt.Sprintf("Avg Drills/min: %.2f", totalRate/count),
		fmt.Sprintf("Latest session: %s (%s)", latest.UUID, latest.EndedAt.Local().Format("2006-01-02 15:04")),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints accuracy and pace sparklines sized to totalWidth.
// A totalWidth of 0 uses the terminal width.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	rates := make([]float64, len(sessions))
	for i, s := range sessions {
		acc, rate := SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		accs[i] = acc * 100
		rates[i] = rate
	}
	width := CurveWidthFor(totalWidth)
	accs = Downsample(MovingAverage(accs, window), width)
	rates = Downsample(MovingAverage(rates, window), width)

	if _, err := fmt.Fprintf(w, "Learning Curves (window %d)\n", window); err != nil {
		return err
	}
	rows := [][]string{
		{"Accuracy", "|" + Sparkline(accs) + "|"},
		{"Drills/min", "|" + Sparkline(rates) + "|"},
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWordTable prints per-word aggregates, hardest words first.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	type row struct {
		word      string
		acc       float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		total := agg.Correct + agg.Incorrect
		acc := 0.0
		if total > 0 {
			acc = float64(agg.Correct) / float64(total)
		}
		rows = append(rows, row{
			word:      agg.Word,
			acc:       acc,
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc != rows[j].acc {
			return rows[i].acc < rows[j].acc
		}
		if rows[i].incorrect != rows[j].incorrect {
			return rows[i].incorrect > rows[j].incorrect
		}
		return rows[i].word < rows[j].word
	})
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}

	if _, err := fmt.Fprintln(w, "Hardest Words (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Word", "Accuracy", "Correct", "Missed"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.word,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
