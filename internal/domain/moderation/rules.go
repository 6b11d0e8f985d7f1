package moderation

import (
	"errors"
	"fmt"
)

var ErrInvalidThreshold = errors.New("invalid rule threshold")

// Rule maps a score band on one tag to an action. A nil CategoryID applies everywhere.
type Rule struct {
	RuleID         uint64
	TagID          uint64
	CategoryID     *uint64
	LowerThreshold float64
	UpperThreshold float64
	Action         Action
}

func (r Rule) Validate() error {
	if r.LowerThreshold < 0 || r.UpperThreshold > 1 || r.LowerThreshold > r.UpperThreshold {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidThreshold, r.LowerThreshold, r.UpperThreshold)
	}
	if _, err := ParseAction(string(r.Action)); err != nil {
		return err
	}
	return nil
}

// AppliesTo reports whether the rule is visible to comments in categoryID.
func (r Rule) AppliesTo(categoryID *uint64) bool {
	if r.CategoryID == nil {
		return true
	}
	return categoryID != nil && *r.CategoryID == *categoryID
}

// ActionSet records which actions matched; repeated matches collapse.
type ActionSet map[Action]struct{}

func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// MatchRules tests every rule whose tag has a compiled score against its band.
// Rules with an unknown action or an inverted band never match.
func MatchRules(rules []Rule, scores map[uint64]float64) ActionSet {
	matched := make(ActionSet)
	for _, rule := range rules {
		score, ok := scores[rule.TagID]
		if !ok {
			continue
		}
		if rule.Validate() != nil {
			continue
		}
		if score >= rule.LowerThreshold && score <= rule.UpperThreshold {
			matched[rule.Action] = struct{}{}
		}
	}
	return matched
}

type Outcome string

const (
	OutcomeNone      Outcome = "none"
	OutcomeAccept    Outcome = "accept"
	OutcomeReject    Outcome = "reject"
	OutcomeDefer     Outcome = "defer"
	OutcomeHighlight Outcome = "highlight"
)

// Resolution is the single result of a matched action set.
// Highlight is only meaningful together with OutcomeAccept.
type Resolution struct {
	Outcome   Outcome
	Highlight bool
}

// Terminal reports whether the outcome moderates the comment.
func (r Resolution) Terminal() bool {
	return r.Outcome == OutcomeAccept || r.Outcome == OutcomeReject || r.Outcome == OutcomeDefer
}

// DecisionStatus is the status an audit decision for this outcome carries.
func (r Resolution) DecisionStatus() (DecisionStatus, bool) {
	switch r.Outcome {
	case OutcomeAccept:
		return DecisionAccept, true
	case OutcomeReject:
		return DecisionReject, true
	case OutcomeDefer:
		return DecisionDefer, true
	default:
		return "", false
	}
}

// Resolve applies the fixed precedence: Defer wins, Accept+Reject and
// Reject+Highlight escalate to Defer, then Reject, then Accept (optionally
// highlighted), then Highlight alone.
func Resolve(set ActionSet) Resolution {
	accept := set.Has(ActionAccept)
	reject := set.Has(ActionReject)
	deferred := set.Has(ActionDefer)
	highlight := set.Has(ActionHighlight)

	switch {
	case deferred:
		return Resolution{Outcome: OutcomeDefer}
	case accept && reject:
		return Resolution{Outcome: OutcomeDefer}
	case reject && highlight:
		return Resolution{Outcome: OutcomeDefer}
	case reject:
		return Resolution{Outcome: OutcomeReject}
	case accept:
		return Resolution{Outcome: OutcomeAccept, Highlight: highlight}
	case highlight:
		return Resolution{Outcome: OutcomeHighlight}
	default:
		return Resolution{Outcome: OutcomeNone}
	}
}
