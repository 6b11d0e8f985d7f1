package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

type ModerationRepository struct {
	db *gorm.DB
}

var _ ports.ModerationRepository = (*ModerationRepository)(nil)

func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// inTx runs multi-statement writes in the caller's transaction, or in a new one.
func (r *ModerationRepository) inTx(ctx context.Context, fn func(db *gorm.DB) error) error {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return err
		}
		return fn(db)
	}

	if ctx == nil {
		return errors.New("context is required")
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

func takeOrNotFound(query *gorm.DB, dest any, notFound error, what string) error {
	if err := query.Take(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound
		}
		return errs.WithStack(errs.Wrapf(err, "query %s", what))
	}
	return nil
}

func mapComment(row model.Comment) (ports.Comment, error) {
	summary := map[string]moderation.FlagCounts{}
	if row.FlagsSummary != "" {
		if err := json.Unmarshal([]byte(row.FlagsSummary), &summary); err != nil {
			return ports.Comment{}, errs.Wrapf(err, "decode flags summary of comment %d", row.CommentID)
		}
	}

	return ports.Comment{
		CommentID:      row.CommentID,
		ArticleID:      row.ArticleID,
		AuthorSourceID: row.AuthorSourceID,
		Text:           row.Text,
		State: moderation.CommentState{
			IsModerated:     row.IsModerated,
			Accepted:        moderation.AcceptStateFromNullable(row.IsAccepted),
			IsDeferred:      row.IsDeferred,
			IsHighlighted:   row.IsHighlighted,
			IsScored:        row.IsScored,
			IsBatchResolved: row.IsBatchResolved,
			IsAutoResolved:  row.IsAutoResolved,
		},
		FlagsSummary:         summary,
		UnresolvedFlagsCount: row.UnresolvedFlagsCount,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func mapCounters(c model.Counters) moderation.Counters {
	return moderation.Counters{
		All:         c.AllCount,
		Unprocessed: c.UnprocessedCount,
		Unmoderated: c.UnmoderatedCount,
		Moderated:   c.ModeratedCount,
		Highlighted: c.HighlightedCount,
		Approved:    c.ApprovedCount,
		Rejected:    c.RejectedCount,
		Deferred:    c.DeferredCount,
		Flagged:     c.FlaggedCount,
		Batched:     c.BatchedCount,
	}
}

func counterColumns(c moderation.Counters) map[string]any {
	return map[string]any{
		"all_count":         c.All,
		"unprocessed_count": c.Unprocessed,
		"unmoderated_count": c.Unmoderated,
		"moderated_count":   c.Moderated,
		"highlighted_count": c.Highlighted,
		"approved_count":    c.Approved,
		"rejected_count":    c.Rejected,
		"deferred_count":    c.Deferred,
		"flagged_count":     c.Flagged,
		"batched_count":     c.Batched,
	}
}

func mapArticle(row model.Article) ports.Article {
	return ports.Article{
		ArticleID:       row.ArticleID,
		CategoryID:      row.CategoryID,
		SourceID:        row.SourceID,
		Title:           row.Title,
		IsAutoModerated: row.IsAutoModerated,
		Counters:        mapCounters(row.Counters),
		LastModeratedAt: row.LastModeratedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func mapCategory(row model.Category) ports.Category {
	return ports.Category{
		CategoryID: row.CategoryID,
		Label:      row.Label,
		Counters:   mapCounters(row.Counters),
		UpdatedAt:  row.UpdatedAt,
	}
}

func mapTag(row model.Tag) ports.Tag {
	return ports.Tag{
		TagID:          row.TagID,
		Key:            row.Key,
		Label:          row.Label,
		IsSummaryScore: row.IsSummaryScore,
	}
}

func mapCommentScore(row model.CommentScore) ports.CommentScore {
	return ports.CommentScore{
		CommentScoreID:  row.CommentScoreID,
		CommentID:       row.CommentID,
		TagID:           row.TagID,
		Score:           row.Score,
		SourceType:      ports.ScoreSource(row.SourceType),
		UserID:          row.UserID,
		AnnotationStart: row.AnnotationStart,
		AnnotationEnd:   row.AnnotationEnd,
		Confirmation:    moderation.ConfirmStateFromNullable(row.IsConfirmed),
		ConfirmedUserID: row.ConfirmedUserID,
		CreatedAt:       row.CreatedAt,
	}
}

func mapDecision(row model.Decision) ports.Decision {
	return ports.Decision{
		DecisionID:          row.DecisionID,
		CommentID:           row.CommentID,
		UserID:              row.UserID,
		Status:              moderation.DecisionStatus(row.Status),
		Source:              moderation.DecisionSource(row.Source),
		IsCurrentDecision:   row.IsCurrentDecision,
		SentBackToPublisher: row.SentBackToPublisher,
		CreatedAt:           row.CreatedAt,
	}
}
