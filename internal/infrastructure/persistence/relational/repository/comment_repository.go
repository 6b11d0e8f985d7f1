package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

func (r *ModerationRepository) GetComment(ctx context.Context, commentID uint64) (ports.Comment, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Comment{}, err
	}

	var row model.Comment
	if err := takeOrNotFound(db.Where("comment_id = ?", commentID), &row, ports.ErrCommentNotFound, "comment"); err != nil {
		return ports.Comment{}, err
	}
	return mapComment(row)
}

func (r *ModerationRepository) ListCommentIDs(ctx context.Context) ([]uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	if err := db.Model(&model.Comment{}).Order("comment_id asc").Pluck("comment_id", &ids).Error; err != nil {
		return nil, errs.Wrap(err, "query comment ids")
	}
	return ids, nil
}

// ListCommentCategories resolves each comment's category through its article.
func (r *ModerationRepository) ListCommentCategories(ctx context.Context, commentIDs []uint64) (map[uint64]*uint64, error) {
	out := make(map[uint64]*uint64, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}

	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	type row struct {
		CommentID  uint64
		CategoryID *uint64
	}
	var rows []row
	if err := db.Table("comments").
		Select("comments.comment_id AS comment_id, articles.category_id AS category_id").
		Joins("LEFT JOIN articles ON articles.article_id = comments.article_id").
		Where("comments.comment_id IN ?", commentIDs).
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query comment categories")
	}

	for _, rw := range rows {
		out[rw.CommentID] = rw.CategoryID
	}
	return out, nil
}

func (r *ModerationRepository) CreateComment(ctx context.Context, input ports.CommentCreate) (ports.Comment, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Comment{}, err
	}

	now := time.Now().UTC()
	row := model.Comment{
		ArticleID:      input.ArticleID,
		AuthorSourceID: input.AuthorSourceID,
		Text:           input.Text,
		FlagsSummary:   "{}",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Comment{}, errs.Wrap(err, "insert comment")
	}
	return mapComment(row)
}

func (r *ModerationRepository) UpdateCommentState(ctx context.Context, commentID uint64, state moderation.CommentState) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Comment{}).
		Where("comment_id = ?", commentID).
		Updates(map[string]any{
			"is_moderated":      state.IsModerated,
			"is_accepted":       state.Accepted.Nullable(),
			"is_deferred":       state.IsDeferred,
			"is_highlighted":    state.IsHighlighted,
			"is_scored":         state.IsScored,
			"is_batch_resolved": state.IsBatchResolved,
			"is_auto_resolved":  state.IsAutoResolved,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update comment state")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

func (r *ModerationRepository) UpdateCommentFlagSummary(ctx context.Context, commentID uint64, summary map[string]moderation.FlagCounts, unresolved int) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return errs.Wrap(err, "encode flags summary")
	}

	result := db.Model(&model.Comment{}).
		Where("comment_id = ?", commentID).
		Updates(map[string]any{
			"flags_summary":          string(raw),
			"unresolved_flags_count": unresolved,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update comment flags summary")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCommentNotFound
	}
	return nil
}

func (r *ModerationRepository) ListCommentFlags(ctx context.Context, commentID uint64) ([]ports.CommentFlag, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.CommentFlag
	if err := db.Where("comment_id = ?", commentID).Order("flag_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query comment flags")
	}

	items := make([]ports.CommentFlag, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CommentFlag{
			FlagID:           row.FlagID,
			CommentID:        row.CommentID,
			Label:            row.Label,
			Detail:           row.Detail,
			IsRecommendation: row.IsRecommendation,
			IsResolved:       row.IsResolved,
			CreatedAt:        row.CreatedAt,
		})
	}
	return items, nil
}

func (r *ModerationRepository) CreateCommentFlag(ctx context.Context, input ports.CommentFlagCreate) (ports.CommentFlag, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CommentFlag{}, err
	}

	row := model.CommentFlag{
		CommentID:        input.CommentID,
		Label:            input.Label,
		Detail:           input.Detail,
		IsRecommendation: input.IsRecommendation,
		CreatedAt:        time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.CommentFlag{}, errs.Wrap(err, "insert comment flag")
	}

	return ports.CommentFlag{
		FlagID:           row.FlagID,
		CommentID:        row.CommentID,
		Label:            row.Label,
		Detail:           row.Detail,
		IsRecommendation: row.IsRecommendation,
		CreatedAt:        row.CreatedAt,
	}, nil
}

func (r *ModerationRepository) ResolveCommentFlags(ctx context.Context, commentID uint64) (int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return 0, err
	}

	result := db.Model(&model.CommentFlag{}).
		Where("comment_id = ? AND is_resolved = ?", commentID, false).
		Update("is_resolved", true)
	if result.Error != nil {
		return 0, errs.Wrap(result.Error, "resolve comment flags")
	}
	return result.RowsAffected, nil
}

// countArticleComments runs one count per counter predicate; the predicates
// overlap, so a single GROUP BY cannot produce them.
func countArticleComments(db *gorm.DB, articleID uint64) (moderation.Counters, error) {
	predicates := []struct {
		where string
		args  []any
	}{
		{where: "1 = 1"},
		{where: "is_moderated = ? AND is_scored = ? AND is_auto_resolved = ?", args: []any{false, false, false}},
		{where: "is_moderated = ? AND (is_scored = ? OR is_auto_resolved = ?)", args: []any{false, true, true}},
		{where: "is_moderated = ?", args: []any{true}},
		{where: "is_highlighted = ?", args: []any{true}},
		{where: "is_accepted = ? AND is_highlighted = ?", args: []any{true, false}},
		{where: "is_accepted = ? AND is_highlighted = ?", args: []any{false, false}},
		{where: "is_deferred = ?", args: []any{true}},
		{where: "unresolved_flags_count > ?", args: []any{0}},
		{where: "is_batch_resolved = ?", args: []any{true}},
	}

	var c moderation.Counters
	targets := []*int64{
		&c.All, &c.Unprocessed, &c.Unmoderated, &c.Moderated, &c.Highlighted,
		&c.Approved, &c.Rejected, &c.Deferred, &c.Flagged, &c.Batched,
	}

	for i, p := range predicates {
		if err := db.Model(&model.Comment{}).
			Where("article_id = ?", articleID).
			Where(p.where, p.args...).
			Count(targets[i]).Error; err != nil {
			return moderation.Counters{}, errs.Wrapf(err, "count article %d comments where %s", articleID, p.where)
		}
	}
	return c, nil
}
