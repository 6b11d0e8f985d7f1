package moderation

// Flag is a user complaint against a comment.
type Flag struct {
	Label            string
	IsResolved       bool
	IsRecommendation bool
}

// FlagCounts is the per-label breakdown stored on the comment.
type FlagCounts struct {
	Total          int `json:"total"`
	Unresolved     int `json:"unresolved"`
	Recommendation int `json:"recommendation"`
}

// SummarizeFlags rebuilds the flag summary from scratch and returns the number
// of unresolved non-recommendation flags.
func SummarizeFlags(flags []Flag) (map[string]FlagCounts, int) {
	summary := make(map[string]FlagCounts)
	unresolved := 0
	for _, f := range flags {
		counts := summary[f.Label]
		counts.Total++
		if f.IsRecommendation {
			counts.Recommendation++
		} else if !f.IsResolved {
			counts.Unresolved++
			unresolved++
		}
		summary[f.Label] = counts
	}
	return summary, unresolved
}

// Counters are the denormalized aggregates kept on articles and categories.
type Counters struct {
	All         int64 `json:"all"`
	Unprocessed int64 `json:"unprocessed"`
	Unmoderated int64 `json:"unmoderated"`
	Moderated   int64 `json:"moderated"`
	Highlighted int64 `json:"highlighted"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
	Deferred    int64 `json:"deferred"`
	Flagged     int64 `json:"flagged"`
	Batched     int64 `json:"batched"`
}

func (c Counters) Add(o Counters) Counters {
	return Counters{
		All:         c.All + o.All,
		Unprocessed: c.Unprocessed + o.Unprocessed,
		Unmoderated: c.Unmoderated + o.Unmoderated,
		Moderated:   c.Moderated + o.Moderated,
		Highlighted: c.Highlighted + o.Highlighted,
		Approved:    c.Approved + o.Approved,
		Rejected:    c.Rejected + o.Rejected,
		Deferred:    c.Deferred + o.Deferred,
		Flagged:     c.Flagged + o.Flagged,
		Batched:     c.Batched + o.Batched,
	}
}
