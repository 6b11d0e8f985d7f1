package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

// ListRulesForCategory returns global rules plus the rules scoped to categoryID.
func (r *ModerationRepository) ListRulesForCategory(ctx context.Context, categoryID *uint64) ([]moderation.Rule, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.ModerationRule{})
	if categoryID == nil {
		query = query.Where("category_id IS NULL")
	} else {
		query = query.Where("category_id IS NULL OR category_id = ?", *categoryID)
	}

	var rows []model.ModerationRule
	if err := query.Order("rule_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query moderation rules")
	}

	rules := make([]moderation.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, moderation.Rule{
			RuleID:         row.RuleID,
			TagID:          row.TagID,
			CategoryID:     row.CategoryID,
			LowerThreshold: row.LowerThreshold,
			UpperThreshold: row.UpperThreshold,
			Action:         moderation.Action(row.Action),
		})
	}
	return rules, nil
}

func (r *ModerationRepository) ListTaggingSensitivities(ctx context.Context) ([]moderation.TaggingSensitivity, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.TaggingSensitivity
	if err := db.Order("tagging_sensitivity_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query tagging sensitivities")
	}

	items := make([]moderation.TaggingSensitivity, 0, len(rows))
	for _, row := range rows {
		items = append(items, moderation.TaggingSensitivity{
			TaggingSensitivityID: row.TaggingSensitivityID,
			TagID:                row.TagID,
			CategoryID:           row.CategoryID,
			LowerThreshold:       row.LowerThreshold,
			UpperThreshold:       row.UpperThreshold,
		})
	}
	return items, nil
}

// ReplaceRules swaps the whole rule set. Invalid rules are refused before anything is deleted.
func (r *ModerationRepository) ReplaceRules(ctx context.Context, rules []moderation.Rule) error {
	rows := make([]model.ModerationRule, 0, len(rules))
	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return errs.Wrapf(err, "rule %d", i)
		}
		rows = append(rows, model.ModerationRule{
			TagID:          rule.TagID,
			CategoryID:     rule.CategoryID,
			LowerThreshold: rule.LowerThreshold,
			UpperThreshold: rule.UpperThreshold,
			Action:         string(rule.Action),
		})
	}

	return r.inTx(ctx, func(db *gorm.DB) error {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ModerationRule{}).Error; err != nil {
			return errs.Wrap(err, "clear moderation rules")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := db.Create(&rows).Error; err != nil {
			return errs.Wrap(err, "insert moderation rules")
		}
		return nil
	})
}

func (r *ModerationRepository) ReplaceTaggingSensitivities(ctx context.Context, sensitivities []moderation.TaggingSensitivity) error {
	rows := make([]model.TaggingSensitivity, 0, len(sensitivities))
	for i, s := range sensitivities {
		if s.LowerThreshold > s.UpperThreshold {
			return errs.Wrapf(moderation.ErrInvalidThreshold, "tagging sensitivity %d", i)
		}
		rows = append(rows, model.TaggingSensitivity{
			TagID:          s.TagID,
			CategoryID:     s.CategoryID,
			LowerThreshold: s.LowerThreshold,
			UpperThreshold: s.UpperThreshold,
		})
	}

	return r.inTx(ctx, func(db *gorm.DB) error {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.TaggingSensitivity{}).Error; err != nil {
			return errs.Wrap(err, "clear tagging sensitivities")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := db.Create(&rows).Error; err != nil {
			return errs.Wrap(err, "insert tagging sensitivities")
		}
		return nil
	})
}

func (r *ModerationRepository) GetUser(ctx context.Context, userID uint64) (ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.User{}, err
	}

	var row model.User
	if err := takeOrNotFound(db.Where("user_id = ?", userID), &row, ports.ErrUserNotFound, "user"); err != nil {
		return ports.User{}, err
	}
	return ports.User{UserID: row.UserID, Name: row.Name, Group: row.Group}, nil
}

func (r *ModerationRepository) CreateUser(ctx context.Context, name string, group string) (ports.User, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.User{}, err
	}

	row := model.User{
		Name:      strings.TrimSpace(name),
		Group:     strings.TrimSpace(group),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.User{}, errs.Wrap(err, "insert user")
	}
	return ports.User{UserID: row.UserID, Name: row.Name, Group: row.Group}, nil
}
