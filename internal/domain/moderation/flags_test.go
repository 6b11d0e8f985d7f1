package moderation

import "testing"

func TestSummarizeFlags(t *testing.T) {
	summary, unresolved := SummarizeFlags([]Flag{
		{Label: "spam"},
		{Label: "spam", IsResolved: true},
		{Label: "spam", IsRecommendation: true},
		{Label: "abuse"},
	})

	if unresolved != 2 {
		t.Fatalf("unresolved = %d, want 2", unresolved)
	}
	if got := summary["spam"]; got != (FlagCounts{Total: 3, Unresolved: 1, Recommendation: 1}) {
		t.Fatalf("spam = %+v", got)
	}
	if got := summary["abuse"]; got != (FlagCounts{Total: 1, Unresolved: 1}) {
		t.Fatalf("abuse = %+v", got)
	}
}

func TestCountersAdd(t *testing.T) {
	a := Counters{All: 3, Approved: 1, Flagged: 2}
	b := Counters{All: 2, Rejected: 1, Batched: 1}
	want := Counters{All: 5, Approved: 1, Rejected: 1, Flagged: 2, Batched: 1}
	if got := a.Add(b); got != want {
		t.Fatalf("Add() = %+v, want %+v", got, want)
	}
}
