package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/recite/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	acc, rate := SessionMetrics(3, 1, 60000)
	if acc != 0.75 {
		t.Fatalf("expected accuracy 0.75, got %v", acc)
	}
	if rate != 4 {
		t.Fatalf("expected 4 drills/min, got %v", rate)
	}
	acc, rate = SessionMetrics(2, 0, 0)
	if acc != 1 || rate != 0 {
		t.Fatalf("expected accuracy without pace, got %v %v", acc, rate)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestDownsample(t *testing.T) {
	got := Downsample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected downsample %v", got)
	}
	if got := Downsample([]float64{1, 2}, 5); len(got) != 2 {
		t.Fatalf("expected short input untouched, got %v", got)
	}
}

func TestRenderWordTableOrdersHardestFirst(t *testing.T) {
	var buf bytes.Buffer
	err := RenderWordTable(&buf, []model.WordAggregate{
		{Word: "sweet", Correct: 4},
		{Word: "Violets", Correct: 1, Incorrect: 3},
	}, 0)
	if err != nil {
		t.Fatalf("RenderWordTable failed: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "Violets") > strings.Index(out, "sweet") {
		t.Fatalf("expected Violets before sweet:\n%s", out)
	}
	if !strings.Contains(out, "25.00%") {
		t.Fatalf("expected accuracy column:\n%s", out)
	}
}

func TestRenderCurvesFixedWidth(t *testing.T) {
	sessions := []model.SessionAggregate{
		{Correct: 1, Incorrect: 1, DurationMs: 60000},
		{Correct: 2, Incorrect: 0, DurationMs: 60000},
	}
	var buf bytes.Buffer
	if err := RenderCurves(&buf, sessions, 1, 40); err != nil {
		t.Fatalf("RenderCurves failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Learning Curves") || !strings.Contains(out, "| @|") {
		t.Fatalf("unexpected curves output:\n%s", out)
	}
}
