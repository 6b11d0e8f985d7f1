package moderation

import (
	"errors"
	"testing"
)

func TestAcceptStateNullableRoundTrip(t *testing.T) {
	for _, s := range []AcceptState{Undecided, Accepted, Rejected} {
		if got := AcceptStateFromNullable(s.Nullable()); got != s {
			t.Fatalf("round trip %s = %s", s, got)
		}
	}
	if Undecided.Nullable() != nil {
		t.Fatalf("Undecided.Nullable() != nil")
	}
}

func TestApplyResolutionAutomatic(t *testing.T) {
	pending := CommentState{IsScored: true}

	tests := []struct {
		name string
		res  Resolution
		want CommentState
	}{
		{
			name: "accept only",
			res:  Resolution{Outcome: OutcomeAccept},
			want: CommentState{Accepted: Accepted, IsModerated: true, IsAutoResolved: true},
		},
		{
			name: "accept and highlight",
			res:  Resolution{Outcome: OutcomeAccept, Highlight: true},
			want: CommentState{Accepted: Accepted, IsHighlighted: true, IsModerated: true, IsAutoResolved: true},
		},
		{
			name: "reject",
			res:  Resolution{Outcome: OutcomeReject},
			want: CommentState{Accepted: Rejected, IsModerated: true, IsAutoResolved: true},
		},
		{
			name: "defer",
			res:  Resolution{Outcome: OutcomeDefer},
			want: CommentState{Accepted: Undecided, IsDeferred: true, IsModerated: true, IsAutoResolved: true},
		},
		{
			name: "highlight only keeps unmoderated",
			res:  Resolution{Outcome: OutcomeHighlight},
			want: CommentState{IsHighlighted: true, IsAutoResolved: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := ApplyResolution(pending, tt.res)
			if !changed {
				t.Fatalf("ApplyResolution() changed = false")
			}
			if got != tt.want {
				t.Fatalf("ApplyResolution() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestApplyResolutionHighlightClearsEarlierAutomaticOutcome(t *testing.T) {
	earlier := []CommentState{
		{Accepted: Accepted, IsModerated: true, IsAutoResolved: true},
		{Accepted: Rejected, IsModerated: true, IsAutoResolved: true},
		{Accepted: Undecided, IsDeferred: true, IsModerated: true, IsAutoResolved: true},
	}
	want := CommentState{IsHighlighted: true, IsAutoResolved: true}

	for _, state := range earlier {
		got, changed := ApplyResolution(state, Resolution{Outcome: OutcomeHighlight})
		if !changed {
			t.Fatalf("ApplyResolution(%+v) changed = false", state)
		}
		if got != want {
			t.Fatalf("ApplyResolution(%+v) = %+v, want %+v", state, got, want)
		}
	}
}

func TestApplyResolutionNoneLeavesStateUntouched(t *testing.T) {
	pending := CommentState{IsScored: true, IsHighlighted: true}
	got, changed := ApplyResolution(pending, Resolution{Outcome: OutcomeNone})
	if changed || got != pending {
		t.Fatalf("ApplyResolution(none) = %+v, %v", got, changed)
	}
}

func TestApplyTransitionAccountable(t *testing.T) {
	start := CommentState{Accepted: Accepted, IsHighlighted: true, IsAutoResolved: true, IsModerated: true}

	got, status, err := ApplyTransition(start, TransitionReject, true)
	if err != nil {
		t.Fatalf("reject error = %v", err)
	}
	if status == nil || *status != DecisionReject {
		t.Fatalf("reject status = %v", status)
	}
	if want := (CommentState{Accepted: Rejected, IsModerated: true, IsBatchResolved: true}); got != want {
		t.Fatalf("reject state = %+v, want %+v", got, want)
	}

	got, status, err = ApplyTransition(got, TransitionDefer, false)
	if err != nil {
		t.Fatalf("defer error = %v", err)
	}
	if status == nil || *status != DecisionDefer {
		t.Fatalf("defer status = %v", status)
	}
	if got.Accepted != Undecided || !got.IsDeferred || got.IsBatchResolved {
		t.Fatalf("defer state = %+v", got)
	}

	got, status, err = ApplyTransition(got, TransitionHighlight, false)
	if err != nil {
		t.Fatalf("highlight error = %v", err)
	}
	if status == nil || *status != DecisionAccept {
		t.Fatalf("highlight status = %v", status)
	}
	if want := (CommentState{Accepted: Accepted, IsHighlighted: true, IsModerated: true}); got != want {
		t.Fatalf("highlight state = %+v, want %+v", got, want)
	}
}

func TestApplyTransitionApproveIsIdempotent(t *testing.T) {
	once, _, err := ApplyTransition(CommentState{}, TransitionApprove, false)
	if err != nil {
		t.Fatalf("first approve error = %v", err)
	}
	twice, status, err := ApplyTransition(once, TransitionApprove, false)
	if err != nil {
		t.Fatalf("second approve error = %v", err)
	}
	if once != twice {
		t.Fatalf("approve twice = %+v, once = %+v", twice, once)
	}
	if status == nil || *status != DecisionAccept {
		t.Fatalf("approve status = %v", status)
	}
}

func TestApplyTransitionResetRecordsNoDecision(t *testing.T) {
	start := CommentState{Accepted: Rejected, IsModerated: true, IsDeferred: true, IsHighlighted: true, IsAutoResolved: true}
	got, status, err := ApplyTransition(start, TransitionReset, false)
	if err != nil {
		t.Fatalf("reset error = %v", err)
	}
	if status != nil {
		t.Fatalf("reset status = %v, want nil", *status)
	}
	if want := (CommentState{IsAutoResolved: true}); got != want {
		t.Fatalf("reset state = %+v, want %+v", got, want)
	}
}

func TestApplyTransitionRejectsUnknown(t *testing.T) {
	if _, _, err := ApplyTransition(CommentState{}, Transition("ban"), false); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("ApplyTransition(ban) error = %v, want ErrInvalidAction", err)
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" approve ")
	if err != nil || a != ActionAccept {
		t.Fatalf("ParseAction(approve) = %q, %v", a, err)
	}
	if _, err := ParseAction("delete"); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("ParseAction(delete) error = %v, want ErrInvalidAction", err)
	}
}

func TestDecisionSourceFor(t *testing.T) {
	uid := uint64(9)
	if got := DecisionSourceFor(&uid); got != SourceUser {
		t.Fatalf("DecisionSourceFor(user) = %q", got)
	}
	if got := DecisionSourceFor(nil); got != SourceRule {
		t.Fatalf("DecisionSourceFor(nil) = %q", got)
	}
}

func TestConfirmStateNullable(t *testing.T) {
	if Unconfirmed.Nullable() != nil {
		t.Fatalf("Unconfirmed.Nullable() != nil")
	}
	if !*Confirmed.Nullable() || *Disputed.Nullable() {
		t.Fatalf("Confirmed/Disputed nullable values are wrong")
	}
	if got := ConfirmStateFromNullable(Disputed.Nullable()); got != Disputed {
		t.Fatalf("round trip Disputed = %v", got)
	}
}
