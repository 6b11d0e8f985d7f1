package moderation

// SummaryScore is one stored (comment, tag) score row.
type SummaryScore struct {
	TagID uint64
	Score float64
}

// CompileScores reduces score rows to one score per tag. Duplicates keep the
// maximum so that a later, lower re-score never hides an earlier flag.
func CompileScores(rows []SummaryScore) map[uint64]float64 {
	compiled := make(map[uint64]float64, len(rows))
	for _, row := range rows {
		current, ok := compiled[row.TagID]
		if !ok || row.Score > current {
			compiled[row.TagID] = row.Score
		}
	}
	return compiled
}

// SummaryTagScore is the value of the distinguished summary tag: the maximum
// over every other tag. ok is false when there is nothing to aggregate.
func SummaryTagScore(compiled map[uint64]float64, summaryTagID uint64) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for tagID, score := range compiled {
		if tagID == summaryTagID {
			continue
		}
		if !found || score > best {
			best = score
			found = true
		}
	}
	return best, found
}
