package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

func (r *ModerationRepository) GetTag(ctx context.Context, tagID uint64) (ports.Tag, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Tag{}, err
	}

	var row model.Tag
	if err := takeOrNotFound(db.Where("tag_id = ?", tagID), &row, ports.ErrTagNotFound, "tag"); err != nil {
		return ports.Tag{}, err
	}
	return mapTag(row), nil
}

func (r *ModerationRepository) GetSummaryTag(ctx context.Context) (ports.Tag, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Tag{}, false, err
	}

	var row model.Tag
	if err := db.Where("is_summary_score = ?", true).Order("tag_id asc").Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Tag{}, false, nil
		}
		return ports.Tag{}, false, errs.Wrap(err, "query summary tag")
	}
	return mapTag(row), true, nil
}

// UpsertTag matches on key so seeding is repeatable.
func (r *ModerationRepository) UpsertTag(ctx context.Context, tag ports.Tag) (ports.Tag, error) {
	key := strings.TrimSpace(tag.Key)
	if key == "" {
		return ports.Tag{}, errors.New("tag key is required")
	}

	var out ports.Tag
	err := r.inTx(ctx, func(db *gorm.DB) error {
		row := model.Tag{
			Key:            key,
			Label:          tag.Label,
			IsSummaryScore: tag.IsSummaryScore,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "is_summary_score"}),
		}).Create(&row).Error; err != nil {
			return errs.Wrap(err, "upsert tag")
		}

		var stored model.Tag
		if err := db.Where("key = ?", key).Take(&stored).Error; err != nil {
			return errs.Wrap(err, "reload tag")
		}
		out = mapTag(stored)
		return nil
	})
	return out, err
}

func (r *ModerationRepository) ListSummaryScores(ctx context.Context, commentID uint64) ([]ports.SummaryScore, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.CommentSummaryScore
	if err := db.Where("comment_id = ?", commentID).Order("tag_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query summary scores")
	}

	items := make([]ports.SummaryScore, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.SummaryScore{
			CommentID:       row.CommentID,
			TagID:           row.TagID,
			Score:           row.Score,
			Confirmation:    moderation.ConfirmStateFromNullable(row.IsConfirmed),
			ConfirmedUserID: row.ConfirmedUserID,
		})
	}
	return items, nil
}

// UpsertSummaryScore keeps the higher of the stored and the incoming score.
func (r *ModerationRepository) UpsertSummaryScore(ctx context.Context, commentID uint64, tagID uint64, score float64) error {
	return r.inTx(ctx, func(db *gorm.DB) error {
		var existing model.CommentSummaryScore
		err := db.Where("comment_id = ? AND tag_id = ?", commentID, tagID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := model.CommentSummaryScore{
				CommentID: commentID,
				TagID:     tagID,
				Score:     score,
				UpdatedAt: time.Now().UTC(),
			}
			if err := db.Create(&row).Error; err != nil {
				return errs.Wrap(err, "insert summary score")
			}
			return nil
		case err != nil:
			return errs.Wrap(err, "query summary score")
		}

		if score <= existing.Score {
			return nil
		}
		if err := db.Model(&model.CommentSummaryScore{}).
			Where("comment_id = ? AND tag_id = ?", commentID, tagID).
			Updates(map[string]any{"score": score, "updated_at": time.Now().UTC()}).Error; err != nil {
			return errs.Wrap(err, "update summary score")
		}
		return nil
	})
}

func (r *ModerationRepository) SetSummaryScoreConfirmation(ctx context.Context, commentID uint64, tagID uint64, state moderation.ConfirmState, userID *uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.CommentSummaryScore{}).
		Where("comment_id = ? AND tag_id = ?", commentID, tagID).
		Updates(map[string]any{
			"is_confirmed":      state.Nullable(),
			"confirmed_user_id": userID,
			"updated_at":        time.Now().UTC(),
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update summary score confirmation")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCommentScoreNotFound
	}
	return nil
}

func (r *ModerationRepository) GetCommentScore(ctx context.Context, commentScoreID uint64) (ports.CommentScore, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CommentScore{}, err
	}

	var row model.CommentScore
	if err := takeOrNotFound(db.Where("comment_score_id = ?", commentScoreID), &row, ports.ErrCommentScoreNotFound, "comment score"); err != nil {
		return ports.CommentScore{}, err
	}
	return mapCommentScore(row), nil
}

func (r *ModerationRepository) CreateCommentScore(ctx context.Context, input ports.CommentScoreCreate) (ports.CommentScore, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.CommentScore{}, err
	}

	row := model.CommentScore{
		CommentID:       input.CommentID,
		TagID:           input.TagID,
		Score:           input.Score,
		SourceType:      string(input.SourceType),
		UserID:          input.UserID,
		AnnotationStart: input.AnnotationStart,
		AnnotationEnd:   input.AnnotationEnd,
		CreatedAt:       time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.CommentScore{}, errs.Wrap(err, "insert comment score")
	}
	return mapCommentScore(row), nil
}

func (r *ModerationRepository) DeleteCommentScore(ctx context.Context, commentScoreID uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Where("comment_score_id = ?", commentScoreID).Delete(&model.CommentScore{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete comment score")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCommentScoreNotFound
	}
	return nil
}

func (r *ModerationRepository) SetCommentScoreConfirmation(ctx context.Context, commentScoreID uint64, state moderation.ConfirmState, userID *uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.CommentScore{}).
		Where("comment_score_id = ?", commentScoreID).
		Updates(map[string]any{
			"is_confirmed":      state.Nullable(),
			"confirmed_user_id": userID,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update comment score confirmation")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCommentScoreNotFound
	}
	return nil
}

// ListTopScores returns, per comment, the highest non-disputed span for tagID.
// Ties keep the earliest span.
func (r *ModerationRepository) ListTopScores(ctx context.Context, commentIDs []uint64, tagID uint64) ([]moderation.TopScore, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}

	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.CommentScore
	if err := db.
		Where("comment_id IN ? AND tag_id = ?", commentIDs, tagID).
		Where("is_confirmed IS NULL OR is_confirmed = ?", true).
		Order("comment_id asc, score desc, comment_score_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query top scores")
	}

	items := make([]moderation.TopScore, 0, len(commentIDs))
	seen := make(map[uint64]struct{}, len(commentIDs))
	for _, row := range rows {
		if _, ok := seen[row.CommentID]; ok {
			continue
		}
		seen[row.CommentID] = struct{}{}
		items = append(items, moderation.TopScore{
			CommentID:       row.CommentID,
			TagID:           row.TagID,
			Score:           row.Score,
			AnnotationStart: row.AnnotationStart,
			AnnotationEnd:   row.AnnotationEnd,
		})
	}
	return items, nil
}
