package model

// All lists every table for schema migration.
func All() []any {
	return []any{
		&Category{},
		&Article{},
		&Comment{},
		&CommentFlag{},
		&User{},
		&Tag{},
		&CommentSummaryScore{},
		&CommentScore{},
		&ModerationRule{},
		&TaggingSensitivity{},
		&Decision{},
		&KV{},
	}
}
