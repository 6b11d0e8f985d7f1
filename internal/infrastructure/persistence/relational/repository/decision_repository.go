package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

func (r *ModerationRepository) CreateDecision(ctx context.Context, input ports.DecisionCreate) (ports.Decision, error) {
	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var out ports.Decision
	err := r.inTx(ctx, func(db *gorm.DB) error {
		if err := demoteCurrentDecision(db, input.CommentID); err != nil {
			return err
		}

		row := model.Decision{
			CommentID:           input.CommentID,
			UserID:              input.UserID,
			Status:              string(input.Status),
			Source:              string(input.Source),
			IsCurrentDecision:   true,
			SentBackToPublisher: input.SentBackToPublisher,
			CreatedAt:           createdAt,
		}
		if err := db.Create(&row).Error; err != nil {
			return errs.Wrap(err, "insert decision")
		}
		out = mapDecision(row)
		return nil
	})
	return out, err
}

// DemoteCurrentDecision leaves the comment without a current decision. History rows are kept.
func (r *ModerationRepository) DemoteCurrentDecision(ctx context.Context, commentID uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}
	return demoteCurrentDecision(db, commentID)
}

func demoteCurrentDecision(db *gorm.DB, commentID uint64) error {
	if err := db.Model(&model.Decision{}).
		Where("comment_id = ? AND is_current_decision = ?", commentID, true).
		Update("is_current_decision", false).Error; err != nil {
		return errs.Wrapf(err, "demote current decision of comment %d", commentID)
	}
	return nil
}

func (r *ModerationRepository) ListDecisions(ctx context.Context, commentID uint64) ([]ports.Decision, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Decision
	if err := db.Where("comment_id = ?", commentID).Order("decision_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query decisions")
	}

	items := make([]ports.Decision, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDecision(row))
	}
	return items, nil
}

// ListPendingDecisions returns current decisions not yet sent to the publisher, oldest first.
func (r *ModerationRepository) ListPendingDecisions(ctx context.Context, limit int) ([]ports.Decision, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Where("is_current_decision = ? AND sent_back_to_publisher IS NULL", true).Order("decision_id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.Decision
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query pending decisions")
	}

	items := make([]ports.Decision, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDecision(row))
	}
	return items, nil
}

func (r *ModerationRepository) MarkDecisionSent(ctx context.Context, decisionID uint64, sentAt time.Time) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Decision{}).
		Where("decision_id = ?", decisionID).
		Update("sent_back_to_publisher", sentAt.UTC())
	if result.Error != nil {
		return errs.Wrap(result.Error, "mark decision sent")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDecisionNotFound
	}
	return nil
}
