package moderation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAction         = errors.New("invalid moderation action")
	ErrInvalidDecisionStatus = errors.New("invalid decision status")
)

// AcceptState replaces the nullable is_accepted column inside the domain.
type AcceptState int

const (
	Undecided AcceptState = iota
	Accepted
	Rejected
)

func (s AcceptState) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "undecided"
	}
}

// Nullable converts to the storage representation (true/false/null).
func (s AcceptState) Nullable() *bool {
	switch s {
	case Accepted:
		v := true
		return &v
	case Rejected:
		v := false
		return &v
	default:
		return nil
	}
}

func AcceptStateFromNullable(v *bool) AcceptState {
	if v == nil {
		return Undecided
	}
	if *v {
		return Accepted
	}
	return Rejected
}

// Action is what a moderation rule (or a moderator) asks for.
type Action string

const (
	ActionAccept    Action = "Accept"
	ActionReject    Action = "Reject"
	ActionDefer     Action = "Defer"
	ActionHighlight Action = "Highlight"
)

func ParseAction(raw string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "accept", "approve":
		return ActionAccept, nil
	case "reject":
		return ActionReject, nil
	case "defer":
		return ActionDefer, nil
	case "highlight":
		return ActionHighlight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, raw)
	}
}

type DecisionStatus string

const (
	DecisionAccept DecisionStatus = "Accept"
	DecisionReject DecisionStatus = "Reject"
	DecisionDefer  DecisionStatus = "Defer"
)

func ParseDecisionStatus(raw string) (DecisionStatus, error) {
	switch DecisionStatus(strings.TrimSpace(raw)) {
	case DecisionAccept, DecisionReject, DecisionDefer:
		return DecisionStatus(strings.TrimSpace(raw)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDecisionStatus, raw)
	}
}

type DecisionSource string

const (
	SourceUser DecisionSource = "User"
	SourceRule DecisionSource = "Rule"
)

// DecisionSourceFor attributes a decision to a user when one acted, otherwise to the rule engine.
func DecisionSourceFor(userID *uint64) DecisionSource {
	if userID != nil {
		return SourceUser
	}
	return SourceRule
}

// ConfirmState is the moderator verdict on a single score or annotation.
type ConfirmState int

const (
	Unconfirmed ConfirmState = iota
	Confirmed
	Disputed
)

func (s ConfirmState) Nullable() *bool {
	return AcceptState(s).Nullable()
}

func ConfirmStateFromNullable(v *bool) ConfirmState {
	return ConfirmState(AcceptStateFromNullable(v))
}

// CommentState is the set of moderation flags carried by a comment.
// IsDeferred and IsHighlighted are independent of Accepted in storage;
// the transition functions below keep the combinations consistent.
type CommentState struct {
	IsModerated     bool
	Accepted        AcceptState
	IsDeferred      bool
	IsHighlighted   bool
	IsScored        bool
	IsBatchResolved bool
	IsAutoResolved  bool
}

// ApplyResolution is the automatic (rule triage) transition. It reports false
// when nothing matched, in which case the state must be left untouched.
// Callers must not pass a state under an accountable decision.
func ApplyResolution(state CommentState, res Resolution) (CommentState, bool) {
	switch res.Outcome {
	case OutcomeAccept:
		state.Accepted = Accepted
		state.IsDeferred = false
		state.IsHighlighted = res.Highlight
		state.IsModerated = true
	case OutcomeReject:
		state.Accepted = Rejected
		state.IsDeferred = false
		state.IsHighlighted = false
		state.IsModerated = true
	case OutcomeDefer:
		state.Accepted = Undecided
		state.IsDeferred = true
		state.IsHighlighted = false
		state.IsModerated = true
	case OutcomeHighlight:
		// A highlight-only match carries no accept/reject, so an earlier
		// automatic outcome no longer holds.
		if state.IsModerated && state.IsAutoResolved {
			state.IsModerated = false
			state.Accepted = Undecided
			state.IsDeferred = false
		}
		state.IsHighlighted = true
	default:
		return state, false
	}

	state.IsAutoResolved = true
	state.IsScored = false
	return state, true
}

// Transition is an accountable action on a comment.
type Transition string

const (
	TransitionApprove   Transition = "approve"
	TransitionReject    Transition = "reject"
	TransitionDefer     Transition = "defer"
	TransitionHighlight Transition = "highlight"
	TransitionReset     Transition = "reset"
)

// ApplyTransition returns the new flags and the decision to record, if any.
func ApplyTransition(state CommentState, t Transition, isBatch bool) (CommentState, *DecisionStatus, error) {
	var status DecisionStatus
	switch t {
	case TransitionApprove:
		state.Accepted = Accepted
		state.IsDeferred = false
		status = DecisionAccept
	case TransitionReject:
		state.Accepted = Rejected
		state.IsDeferred = false
		state.IsHighlighted = false
		status = DecisionReject
	case TransitionDefer:
		state.Accepted = Undecided
		state.IsDeferred = true
		status = DecisionDefer
	case TransitionHighlight:
		state.Accepted = Accepted
		state.IsDeferred = false
		state.IsHighlighted = true
		status = DecisionAccept
	case TransitionReset:
		state.IsModerated = false
		state.Accepted = Undecided
		state.IsDeferred = false
		state.IsHighlighted = false
		return state, nil, nil
	default:
		return state, nil, fmt.Errorf("%w: transition %q", ErrInvalidAction, t)
	}

	state.IsModerated = true
	state.IsBatchResolved = isBatch
	state.IsAutoResolved = false
	return state, &status, nil
}
