package moderation

import (
	"context"
	"errors"
	"log/slog"

	"moderator/internal/bootstrap/logging"
	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/ports"
)

// DenormalizeComment is the cascade run after a comment changes: flag summary,
// article counters, category counters, then change notifications. Each step is
// a full recompute; a failure part way is repaired by RecomputeAll.
func (s *Service) DenormalizeComment(ctx context.Context, commentID uint64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	comment, err := s.refreshFlagSummary(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ArticleID == nil {
		return nil
	}

	article, err := s.recomputeArticle(ctx, *comment.ArticleID)
	if err != nil {
		return err
	}
	if article.CategoryID == nil {
		return nil
	}
	_, err = s.recomputeCategory(ctx, *article.CategoryID)
	return err
}

func (s *Service) refreshFlagSummary(ctx context.Context, commentID uint64) (ports.Comment, error) {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return ports.Comment{}, err
	}

	rows, err := s.repo.ListCommentFlags(ctx, commentID)
	if err != nil {
		return ports.Comment{}, err
	}
	flags := make([]domainmoderation.Flag, 0, len(rows))
	for _, row := range rows {
		flags = append(flags, domainmoderation.Flag{
			Label:            row.Label,
			IsResolved:       row.IsResolved,
			IsRecommendation: row.IsRecommendation,
		})
	}

	summary, unresolved := domainmoderation.SummarizeFlags(flags)
	if err := s.repo.UpdateCommentFlagSummary(ctx, commentID, summary, unresolved); err != nil {
		return ports.Comment{}, errs.Wrapf(err, "update flag summary of comment %d", commentID)
	}
	comment.FlagsSummary = summary
	comment.UnresolvedFlagsCount = unresolved
	return comment, nil
}

func (s *Service) recomputeArticle(ctx context.Context, articleID uint64) (ports.Article, error) {
	counters, err := s.repo.CountArticleComments(ctx, articleID)
	if err != nil {
		return ports.Article{}, err
	}
	if err := s.repo.UpdateArticleCounters(ctx, articleID, counters); err != nil {
		return ports.Article{}, errs.Wrapf(err, "update counters of article %d", articleID)
	}

	article, err := s.repo.GetArticle(ctx, articleID)
	if err != nil {
		return ports.Article{}, err
	}
	s.notifyArticle(ctx, article)
	return article, nil
}

func (s *Service) recomputeCategory(ctx context.Context, categoryID uint64) (ports.Category, error) {
	articles, err := s.repo.ListArticles(ctx, &categoryID)
	if err != nil {
		return ports.Category{}, err
	}

	var total domainmoderation.Counters
	for _, article := range articles {
		total = total.Add(article.Counters)
	}
	if err := s.repo.UpdateCategoryCounters(ctx, categoryID, total); err != nil {
		return ports.Category{}, errs.Wrapf(err, "update counters of category %d", categoryID)
	}

	category, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return ports.Category{}, err
	}
	s.notifyCategory(ctx, category)
	return category, nil
}

// Notification failures never undo a recompute.
func (s *Service) notifyArticle(ctx context.Context, article ports.Article) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ArticleChanged(ctx, article); err != nil {
		logging.Warn(ctx, "article change notification failed",
			slog.String("component", "moderation"),
			slog.Uint64("article_id", article.ArticleID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

func (s *Service) notifyCategory(ctx context.Context, category ports.Category) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.CategoryChanged(ctx, category); err != nil {
		logging.Warn(ctx, "category change notification failed",
			slog.String("component", "moderation"),
			slog.Uint64("category_id", category.CategoryID),
			slog.Any("err", errs.Loggable(err)),
		)
	}
}

// RecomputeAll rebuilds every flag summary and aggregate. It keeps going past
// failures and returns them joined.
func (s *Service) RecomputeAll(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	var failures []error

	commentIDs, err := s.repo.ListCommentIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range commentIDs {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "check context")
		}
		if _, err := s.refreshFlagSummary(ctx, id); err != nil {
			failures = append(failures, errs.Wrapf(err, "comment %d", id))
		}
	}

	articles, err := s.repo.ListArticles(ctx, nil)
	if err != nil {
		return errors.Join(append(failures, err)...)
	}
	for _, article := range articles {
		if _, err := s.recomputeArticle(ctx, article.ArticleID); err != nil {
			failures = append(failures, errs.Wrapf(err, "article %d", article.ArticleID))
		}
	}

	categoryIDs, err := s.repo.ListCategoryIDs(ctx)
	if err != nil {
		return errors.Join(append(failures, err)...)
	}
	for _, id := range categoryIDs {
		if _, err := s.recomputeCategory(ctx, id); err != nil {
			failures = append(failures, errs.Wrapf(err, "category %d", id))
		}
	}

	logging.Info(ctx, "denormalized counts recomputed",
		slog.String("component", "moderation"),
		slog.Int("comments", len(commentIDs)),
		slog.Int("articles", len(articles)),
		slog.Int("categories", len(categoryIDs)),
		slog.Int("failures", len(failures)),
	)
	return errors.Join(failures...)
}
