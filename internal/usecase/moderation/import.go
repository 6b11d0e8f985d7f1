package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

type ImportResult struct {
	Tags          int
	Rules         int
	Sensitivities int
}

// ImportConfiguration upserts tags and replaces the rule and sensitivity sets
// in one transaction. Nothing is written when any entry is invalid.
func (s *Service) ImportConfiguration(ctx context.Context, cfg ports.ModerationConfig) (ImportResult, error) {
	if err := s.ready(ctx); err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		tagIDs := make(map[string]uint64, len(cfg.Tags))
		for _, tc := range cfg.Tags {
			tag, err := s.repo.UpsertTag(txCtx, ports.Tag{
				Key:            tc.Key,
				Label:          tc.Label,
				IsSummaryScore: tc.IsSummaryScore,
			})
			if err != nil {
				return errs.Wrapf(err, "tag %q", tc.Key)
			}
			tagIDs[tag.Key] = tag.TagID
		}

		lookup := func(key string) (uint64, error) {
			key = strings.TrimSpace(key)
			if id, ok := tagIDs[key]; ok {
				return id, nil
			}
			return 0, fmt.Errorf("unknown tag %q: %w", key, ports.ErrTagNotFound)
		}

		rules := make([]domainmoderation.Rule, 0, len(cfg.Rules))
		for i, rc := range cfg.Rules {
			tagID, err := lookup(rc.Tag)
			if err != nil {
				return errs.Wrapf(err, "rule %d", i)
			}
			action, err := domainmoderation.ParseAction(rc.Action)
			if err != nil {
				return errs.Wrapf(err, "rule %d", i)
			}
			if err := s.requireCategory(txCtx, rc.CategoryID); err != nil {
				return errs.Wrapf(err, "rule %d", i)
			}
			rules = append(rules, domainmoderation.Rule{
				TagID:          tagID,
				CategoryID:     rc.CategoryID,
				LowerThreshold: rc.Lower,
				UpperThreshold: rc.Upper,
				Action:         action,
			})
		}

		sensitivities := make([]domainmoderation.TaggingSensitivity, 0, len(cfg.Sensitivities))
		for i, sc := range cfg.Sensitivities {
			var tagID *uint64
			if strings.TrimSpace(sc.Tag) != "" {
				id, err := lookup(sc.Tag)
				if err != nil {
					return errs.Wrapf(err, "sensitivity %d", i)
				}
				tagID = &id
			}
			if err := s.requireCategory(txCtx, sc.CategoryID); err != nil {
				return errs.Wrapf(err, "sensitivity %d", i)
			}
			sensitivities = append(sensitivities, domainmoderation.TaggingSensitivity{
				TagID:          tagID,
				CategoryID:     sc.CategoryID,
				LowerThreshold: sc.Lower,
				UpperThreshold: sc.Upper,
			})
		}

		if err := s.repo.ReplaceRules(txCtx, rules); err != nil {
			return err
		}
		if err := s.repo.ReplaceTaggingSensitivities(txCtx, sensitivities); err != nil {
			return err
		}

		result = ImportResult{Tags: len(tagIDs), Rules: len(rules), Sensitivities: len(sensitivities)}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	logging.Info(ctx, "moderation configuration imported",
		slog.String("component", "moderation"),
		slog.Int("tags", result.Tags),
		slog.Int("rules", result.Rules),
		slog.Int("sensitivities", result.Sensitivities),
	)
	return result, nil
}

func (s *Service) requireCategory(ctx context.Context, categoryID *uint64) error {
	if categoryID == nil {
		return nil
	}
	_, err := s.repo.GetCategory(ctx, *categoryID)
	return err
}
