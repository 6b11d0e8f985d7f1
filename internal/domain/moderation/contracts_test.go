package moderation

import (
	"errors"
	"testing"
)

func TestJobNamesAreParseable(t *testing.T) {
	names := JobNames()
	if len(names) != 14 {
		t.Fatalf("JobNames() len = %d, want 14", len(names))
	}
	for _, name := range names {
		got, err := ParseJobName(string(name))
		if err != nil {
			t.Fatalf("ParseJobName(%q) error = %v", name, err)
		}
		if got != name {
			t.Fatalf("ParseJobName(%q) = %q", name, got)
		}
	}

	if _, err := ParseJobName("deleteComments"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("ParseJobName(deleteComments) error = %v, want ErrUnknownJob", err)
	}
}

func TestTransitionForJob(t *testing.T) {
	tr, ok := TransitionForJob(JobHighlightComments)
	if !ok || tr != TransitionHighlight {
		t.Fatalf("TransitionForJob(highlightComments) = %q, %v", tr, ok)
	}
	if _, ok := TransitionForJob(JobAddTag); ok {
		t.Fatalf("TransitionForJob(addTag) ok = true, want false")
	}
}

func TestTagPayloadValidate(t *testing.T) {
	start, end := 10, 2
	cases := []struct {
		name    string
		payload TagPayload
		job     JobName
		want    error
	}{
		{name: "add tag", payload: TagPayload{CommentID: 1, TagID: 2}, job: JobAddTag},
		{name: "add tag without tag", payload: TagPayload{CommentID: 1}, job: JobAddTag, want: ErrInvalidPayload},
		{name: "confirm without score id", payload: TagPayload{CommentID: 1, TagID: 2}, job: JobConfirmTag, want: ErrInvalidPayload},
		{name: "confirm tag", payload: TagPayload{CommentID: 1, CommentScoreID: 5}, job: JobConfirmTag},
		{name: "comment job", payload: TagPayload{CommentID: 1, TagID: 2}, job: JobAcceptComments, want: ErrUnknownJob},
		{name: "reversed span", payload: TagPayload{CommentID: 1, TagID: 2, AnnotationStart: &start, AnnotationEnd: &end}, job: JobAddTag, want: ErrInvalidPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Validate(tc.job)
			if tc.want == nil && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCommentActionPayloadValidate(t *testing.T) {
	if err := (CommentActionPayload{}).Validate(); !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("Validate() error = %v, want ErrInvalidPayload", err)
	}
	if err := (CommentActionPayload{CommentID: 3}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
