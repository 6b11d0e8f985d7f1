package moderation

import (
	"reflect"
	"testing"
)

func ptr(v uint64) *uint64 { return &v }

func TestFilterTopScoresGlobalBand(t *testing.T) {
	top := map[uint64]TopScore{
		1: {CommentID: 1, TagID: 7, Score: 1.0},
		2: {CommentID: 2, TagID: 7, Score: 0.5},
	}
	global := []TaggingSensitivity{{LowerThreshold: 0.25, UpperThreshold: 0.75}}

	got := FilterTopScoresByTaggingSensitivity(top, nil, global)
	if _, ok := got[1]; len(got) != 1 || !ok {
		t.Fatalf("filtered = %v, want only comment 1", got)
	}
}

func TestFilterTopScoresPrecedence(t *testing.T) {
	tag := uint64(7)
	cat := uint64(3)
	top := map[uint64]TopScore{
		10: {CommentID: 10, TagID: tag, Score: 0.5},
		11: {CommentID: 11, TagID: tag, Score: 0.5},
		12: {CommentID: 12, TagID: 8, Score: 0.5},
	}
	categories := map[uint64]*uint64{10: &cat, 11: nil, 12: &cat}

	sensitivities := []TaggingSensitivity{
		// global would drop all three
		{LowerThreshold: 0.25, UpperThreshold: 0.75},
		// tag-only overrides global for tag 7: nothing below 0.1 is hidden
		{TagID: ptr(tag), LowerThreshold: 0, UpperThreshold: 0.1},
		// category-only overrides tag-only for category 3
		{CategoryID: ptr(cat), LowerThreshold: 0.4, UpperThreshold: 0.6},
	}

	got := FilterTopScoresByTaggingSensitivity(top, categories, sensitivities)
	if _, ok := got[10]; ok {
		t.Fatalf("comment 10 kept, category band should hide it")
	}
	if _, ok := got[11]; !ok {
		t.Fatalf("comment 11 hidden, tag band should keep it")
	}
	if _, ok := got[12]; ok {
		t.Fatalf("comment 12 kept, category band applies to every tag in category 3")
	}

	// tag+category beats category-only
	sensitivities = append(sensitivities, TaggingSensitivity{TagID: ptr(tag), CategoryID: ptr(cat), LowerThreshold: 0.9, UpperThreshold: 1})
	got = FilterTopScoresByTaggingSensitivity(top, categories, sensitivities)
	if _, ok := got[10]; !ok {
		t.Fatalf("comment 10 hidden, tag+category band should keep it")
	}
	if _, ok := got[12]; ok {
		t.Fatalf("comment 12 kept after adding a band for another tag")
	}
}

func TestFilterTopScoresWithoutSensitivityKeepsEverything(t *testing.T) {
	top := map[uint64]TopScore{1: {CommentID: 1, TagID: 1, Score: 0.5}}
	if got := FilterTopScoresByTaggingSensitivity(top, nil, nil); !reflect.DeepEqual(got, top) {
		t.Fatalf("filtered = %v, want %v", got, top)
	}
}

func TestResolveSensitivityIgnoresOtherScopes(t *testing.T) {
	cat := uint64(3)
	_, ok := ResolveSensitivity([]TaggingSensitivity{
		{TagID: ptr(9)},
		{CategoryID: ptr(4)},
	}, 7, &cat)
	if ok {
		t.Fatalf("ResolveSensitivity() matched a sensitivity of another scope")
	}
}
