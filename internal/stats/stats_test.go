package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/mathrun/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	perMinute, acc := SessionMetrics(model.Score{Correct: 9, Incorrect: 3}, 30*time.Second)
	if perMinute != 24 {
		t.Fatalf("expected 24 answers/min, got %v", perMinute)
	}
	if acc != 0.75 {
		t.Fatalf("expected 0.75 accuracy, got %v", acc)
	}
	perMinute, _ = SessionMetrics(model.Score{Correct: 1}, 0)
	if perMinute != 0 {
		t.Fatalf("expected zero pace for zero duration, got %v", perMinute)
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
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestSelectWeakOperations(t *testing.T) {
	aggs := []model.OperationAggregate{
		{Operation: model.Addition, Correct: 4},
		{Operation: model.Subtraction, Correct: 1, Incorrect: 1, ResponseSumMs: 1000, ResponseCount: 2},
		{Operation: model.Multiplication, Correct: 1, Incorrect: 1, ResponseSumMs: 3000, ResponseCount: 2},
		{Operation: model.Division, Correct: 1, Incorrect: 3},
	}
	got := SelectWeakOperations(aggs, 0)
	want := []model.Operation{model.Division, model.Multiplication, model.Subtraction}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if top := SelectWeakOperations(aggs, 1); len(top) != 1 || top[0] != model.Division {
		t.Fatalf("unexpected top weak: %v", top)
	}
	if none := SelectWeakOperations(aggs[:1], 2); len(none) != 0 {
		t.Fatalf("expected no weak operations, got %v", none)
	}
}
