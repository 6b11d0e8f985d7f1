package moderation

import (
	"errors"
	"testing"
)

func set(actions ...Action) ActionSet {
	s := make(ActionSet)
	for _, a := range actions {
		s[a] = struct{}{}
	}
	return s
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name string
		in   ActionSet
		want Resolution
	}{
		{"empty", set(), Resolution{Outcome: OutcomeNone}},
		{"accept", set(ActionAccept), Resolution{Outcome: OutcomeAccept}},
		{"reject", set(ActionReject), Resolution{Outcome: OutcomeReject}},
		{"defer", set(ActionDefer), Resolution{Outcome: OutcomeDefer}},
		{"highlight only", set(ActionHighlight), Resolution{Outcome: OutcomeHighlight}},
		{"accept and highlight", set(ActionAccept, ActionHighlight), Resolution{Outcome: OutcomeAccept, Highlight: true}},
		{"accept and reject escalate", set(ActionAccept, ActionReject), Resolution{Outcome: OutcomeDefer}},
		{"reject and highlight escalate", set(ActionReject, ActionHighlight), Resolution{Outcome: OutcomeDefer}},
		{"defer beats accept", set(ActionDefer, ActionAccept, ActionHighlight), Resolution{Outcome: OutcomeDefer}},
		{"defer beats reject", set(ActionDefer, ActionReject), Resolution{Outcome: OutcomeDefer}},
		{"everything", set(ActionAccept, ActionReject, ActionDefer, ActionHighlight), Resolution{Outcome: OutcomeDefer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.in); got != tt.want {
				t.Fatalf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatchRulesInclusiveBandsAndCategoryBlind(t *testing.T) {
	rules := []Rule{
		{TagID: 1, LowerThreshold: 0.8, UpperThreshold: 1, Action: ActionReject},
		{TagID: 1, LowerThreshold: 0, UpperThreshold: 0.2, Action: ActionAccept},
		{TagID: 2, LowerThreshold: 0.5, UpperThreshold: 0.5, Action: ActionHighlight},
		{TagID: 3, LowerThreshold: 0, UpperThreshold: 1, Action: ActionDefer},
		{TagID: 1, LowerThreshold: 0.9, UpperThreshold: 0.1, Action: ActionDefer},
		{TagID: 1, LowerThreshold: 0, UpperThreshold: 1, Action: Action("Explode")},
	}
	scores := map[uint64]float64{1: 0.8, 2: 0.5}

	matched := MatchRules(rules, scores)

	if !matched.Has(ActionReject) || !matched.Has(ActionHighlight) {
		t.Fatalf("matched = %v, want reject and highlight", matched)
	}
	if matched.Has(ActionAccept) {
		t.Fatalf("accept matched outside its band")
	}
	// tag 3 has no score and the inverted band must not match
	if matched.Has(ActionDefer) {
		t.Fatalf("defer matched")
	}
	if len(matched) != 2 {
		t.Fatalf("matched len = %d, want 2", len(matched))
	}
}

func TestMatchRulesCollapsesDuplicates(t *testing.T) {
	rules := []Rule{
		{TagID: 1, LowerThreshold: 0, UpperThreshold: 1, Action: ActionAccept},
		{TagID: 2, LowerThreshold: 0, UpperThreshold: 1, Action: ActionAccept},
	}
	if matched := MatchRules(rules, map[uint64]float64{1: 0.3, 2: 0.4}); len(matched) != 1 {
		t.Fatalf("matched = %v, want one action", matched)
	}
}

func TestRuleAppliesTo(t *testing.T) {
	cat := uint64(4)
	other := uint64(5)

	global := Rule{TagID: 1}
	scoped := Rule{TagID: 1, CategoryID: &cat}

	if !global.AppliesTo(nil) || !global.AppliesTo(&other) {
		t.Fatalf("global rule must apply everywhere")
	}
	if !scoped.AppliesTo(&cat) {
		t.Fatalf("scoped rule must apply to its category")
	}
	if scoped.AppliesTo(&other) || scoped.AppliesTo(nil) {
		t.Fatalf("scoped rule applied outside its category")
	}
}

func TestRuleValidate(t *testing.T) {
	if err := (Rule{LowerThreshold: 0, UpperThreshold: 1, Action: ActionAccept}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cases := []struct {
		rule Rule
		want error
	}{
		{Rule{LowerThreshold: 0.6, UpperThreshold: 0.4, Action: ActionAccept}, ErrInvalidThreshold},
		{Rule{LowerThreshold: 0, UpperThreshold: 1.5, Action: ActionAccept}, ErrInvalidThreshold},
		{Rule{LowerThreshold: 0, UpperThreshold: 1, Action: "nope"}, ErrInvalidAction},
	}
	for _, tc := range cases {
		if err := tc.rule.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("Validate(%+v) error = %v, want %v", tc.rule, err, tc.want)
		}
	}
}

func TestResolutionDecisionStatus(t *testing.T) {
	status, ok := Resolution{Outcome: OutcomeReject}.DecisionStatus()
	if !ok || status != DecisionReject {
		t.Fatalf("DecisionStatus() = %q, %v", status, ok)
	}

	highlight := Resolution{Outcome: OutcomeHighlight}
	if _, ok := highlight.DecisionStatus(); ok {
		t.Fatalf("highlight-only produced a decision status")
	}
	if highlight.Terminal() {
		t.Fatalf("highlight-only is terminal")
	}
}
