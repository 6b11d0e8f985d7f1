package moderation

import (
	"reflect"
	"testing"
)

func TestCompileScoresKeepsMaximumPerTag(t *testing.T) {
	got := CompileScores([]SummaryScore{
		{TagID: 1, Score: 0.5},
		{TagID: 2, Score: 0.6},
		{TagID: 2, Score: 0.8},
		{TagID: 2, Score: 0.7},
	})
	want := map[uint64]float64{1: 0.5, 2: 0.8}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CompileScores() = %v, want %v", got, want)
	}
}

func TestCompileScoresEmpty(t *testing.T) {
	if got := CompileScores(nil); len(got) != 0 {
		t.Fatalf("CompileScores(nil) = %v, want empty", got)
	}
}

func TestSummaryTagScoreIgnoresItself(t *testing.T) {
	score, ok := SummaryTagScore(map[uint64]float64{1: 0.2, 2: 0.9, 99: 1}, 99)
	if !ok || score != 0.9 {
		t.Fatalf("SummaryTagScore() = %v, %v, want 0.9, true", score, ok)
	}

	if _, ok := SummaryTagScore(map[uint64]float64{99: 1}, 99); ok {
		t.Fatalf("SummaryTagScore() with only the summary tag ok = true")
	}
}
