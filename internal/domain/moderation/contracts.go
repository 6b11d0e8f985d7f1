package moderation

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownJob     = errors.New("unknown moderation job")
	ErrInvalidPayload = errors.New("invalid job payload")
)

// JobName identifies a queued moderation action.
type JobName string

const (
	JobResetComments              JobName = "resetComments"
	JobAcceptComments             JobName = "acceptComments"
	JobRejectComments             JobName = "rejectComments"
	JobDeferComments              JobName = "deferComments"
	JobHighlightComments          JobName = "highlightComments"
	JobTagComments                JobName = "tagComments"
	JobAddTag                     JobName = "addTag"
	JobRemoveTag                  JobName = "removeTag"
	JobConfirmTag                 JobName = "confirmTag"
	JobRejectTag                  JobName = "rejectTag"
	JobResetTag                   JobName = "resetTag"
	JobTagCommentSummaryScores    JobName = "tagCommentSummaryScores"
	JobConfirmCommentSummaryScore JobName = "confirmCommentSummaryScore"
	JobRejectCommentSummaryScore  JobName = "rejectCommentSummaryScore"
)

var jobNames = []JobName{
	JobResetComments,
	JobAcceptComments,
	JobRejectComments,
	JobDeferComments,
	JobHighlightComments,
	JobTagComments,
	JobAddTag,
	JobRemoveTag,
	JobConfirmTag,
	JobRejectTag,
	JobResetTag,
	JobTagCommentSummaryScores,
	JobConfirmCommentSummaryScore,
	JobRejectCommentSummaryScore,
}

// JobNames lists every job contract in a stable order.
func JobNames() []JobName {
	out := make([]JobName, len(jobNames))
	copy(out, jobNames)
	return out
}

func ParseJobName(raw string) (JobName, error) {
	for _, name := range jobNames {
		if string(name) == raw {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownJob, raw)
}

// TransitionForJob maps the comment-state jobs to their transition.
func TransitionForJob(name JobName) (Transition, bool) {
	switch name {
	case JobAcceptComments:
		return TransitionApprove, true
	case JobRejectComments:
		return TransitionReject, true
	case JobDeferComments:
		return TransitionDefer, true
	case JobHighlightComments:
		return TransitionHighlight, true
	case JobResetComments:
		return TransitionReset, true
	default:
		return "", false
	}
}

// CommentActionPayload is carried by the comment-state jobs.
type CommentActionPayload struct {
	CommentID           uint64  `json:"commentId"`
	UserID              *uint64 `json:"userId,omitempty"`
	IsBatchAction       bool    `json:"isBatchAction"`
	AutoConfirmDecision bool    `json:"autoConfirmDecision,omitempty"`
}

func (p CommentActionPayload) Validate() error {
	if p.CommentID == 0 {
		return fmt.Errorf("%w: commentId is required", ErrInvalidPayload)
	}
	return nil
}

// TagPayload is carried by the summary-score and annotation jobs. Annotation
// jobs address an existing score row through CommentScoreID; addTag may carry
// a span instead.
type TagPayload struct {
	CommentID       uint64  `json:"commentId"`
	TagID           uint64  `json:"tagId,omitempty"`
	CommentScoreID  uint64  `json:"commentScoreId,omitempty"`
	AnnotationStart *int    `json:"annotationStart,omitempty"`
	AnnotationEnd   *int    `json:"annotationEnd,omitempty"`
	UserID          *uint64 `json:"userId,omitempty"`
	IsBatchAction   bool    `json:"isBatchAction"`
}

// Validate checks the fields a given job needs.
func (p TagPayload) Validate(name JobName) error {
	if p.CommentID == 0 {
		return fmt.Errorf("%w: commentId is required", ErrInvalidPayload)
	}

	switch name {
	case JobRemoveTag, JobConfirmTag, JobRejectTag, JobResetTag:
		if p.CommentScoreID == 0 {
			return fmt.Errorf("%w: commentScoreId is required for %s", ErrInvalidPayload, name)
		}
	case JobAddTag, JobTagComments, JobTagCommentSummaryScores, JobConfirmCommentSummaryScore, JobRejectCommentSummaryScore:
		if p.TagID == 0 {
			return fmt.Errorf("%w: tagId is required for %s", ErrInvalidPayload, name)
		}
	default:
		return fmt.Errorf("%w: %q is not a tag job", ErrUnknownJob, name)
	}

	if p.AnnotationStart != nil && p.AnnotationEnd != nil && *p.AnnotationStart > *p.AnnotationEnd {
		return fmt.Errorf("%w: annotationStart after annotationEnd", ErrInvalidPayload)
	}
	return nil
}
