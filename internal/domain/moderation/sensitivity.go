package moderation

// TaggingSensitivity is a score band that moderators do not want surfaced.
// Nil TagID/CategoryID widen the scope; see specificity.
type TaggingSensitivity struct {
	TaggingSensitivityID uint64
	TagID                *uint64
	CategoryID           *uint64
	LowerThreshold       float64
	UpperThreshold       float64
}

// specificity ranks scopes: tag+category 3, category 2, tag 1, global 0.
func (s TaggingSensitivity) specificity() int {
	switch {
	case s.TagID != nil && s.CategoryID != nil:
		return 3
	case s.CategoryID != nil:
		return 2
	case s.TagID != nil:
		return 1
	default:
		return 0
	}
}

func (s TaggingSensitivity) matches(tagID uint64, categoryID *uint64) bool {
	if s.TagID != nil && *s.TagID != tagID {
		return false
	}
	if s.CategoryID != nil && (categoryID == nil || *s.CategoryID != *categoryID) {
		return false
	}
	return true
}

func (s TaggingSensitivity) contains(score float64) bool {
	return score >= s.LowerThreshold && score <= s.UpperThreshold
}

// TopScore is the highest scoring span of one tag on one comment.
type TopScore struct {
	CommentID       uint64
	TagID           uint64
	Score           float64
	AnnotationStart *int
	AnnotationEnd   *int
}

// ResolveSensitivity picks the most specific sensitivity matching tag and category.
func ResolveSensitivity(sensitivities []TaggingSensitivity, tagID uint64, categoryID *uint64) (TaggingSensitivity, bool) {
	var (
		best  TaggingSensitivity
		found bool
	)
	for _, s := range sensitivities {
		if !s.matches(tagID, categoryID) {
			continue
		}
		if !found || s.specificity() > best.specificity() {
			best = s
			found = true
		}
	}
	return best, found
}

// FilterTopScoresByTaggingSensitivity drops every top score that falls inside
// the band of its most specific sensitivity. categories maps comment id to the
// comment's category; comments missing from it are treated as uncategorized.
func FilterTopScoresByTaggingSensitivity(
	topScores map[uint64]TopScore,
	categories map[uint64]*uint64,
	sensitivities []TaggingSensitivity,
) map[uint64]TopScore {
	out := make(map[uint64]TopScore, len(topScores))
	for commentID, top := range topScores {
		s, ok := ResolveSensitivity(sensitivities, top.TagID, categories[commentID])
		if ok && s.contains(top.Score) {
			continue
		}
		out[commentID] = top
	}
	return out
}
