package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"moderator/internal/domain/moderation"
	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

func (r *ModerationRepository) GetArticle(ctx context.Context, articleID uint64) (ports.Article, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Article{}, err
	}

	var row model.Article
	if err := takeOrNotFound(db.Where("article_id = ?", articleID), &row, ports.ErrArticleNotFound, "article"); err != nil {
		return ports.Article{}, err
	}
	return mapArticle(row), nil
}

func (r *ModerationRepository) GetCategory(ctx context.Context, categoryID uint64) (ports.Category, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Category{}, err
	}

	var row model.Category
	if err := takeOrNotFound(db.Where("category_id = ?", categoryID), &row, ports.ErrCategoryNotFound, "category"); err != nil {
		return ports.Category{}, err
	}
	return mapCategory(row), nil
}

func (r *ModerationRepository) CreateArticle(ctx context.Context, input ports.ArticleCreate) (ports.Article, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Article{}, err
	}

	now := time.Now().UTC()
	row := model.Article{
		CategoryID:      input.CategoryID,
		SourceID:        strings.TrimSpace(input.SourceID),
		Title:           input.Title,
		IsAutoModerated: input.IsAutoModerated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Article{}, errs.Wrap(err, "insert article")
	}
	return mapArticle(row), nil
}

func (r *ModerationRepository) CreateCategory(ctx context.Context, label string) (ports.Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return ports.Category{}, errors.New("category label is required")
	}

	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Category{}, err
	}

	now := time.Now().UTC()
	row := model.Category{Label: label, CreatedAt: now, UpdatedAt: now}
	if err := db.Create(&row).Error; err != nil {
		return ports.Category{}, errs.Wrap(err, "insert category")
	}
	return mapCategory(row), nil
}

func (r *ModerationRepository) CountArticleComments(ctx context.Context, articleID uint64) (moderation.Counters, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return moderation.Counters{}, err
	}
	return countArticleComments(db, articleID)
}

func (r *ModerationRepository) UpdateArticleCounters(ctx context.Context, articleID uint64, counters moderation.Counters) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	values := counterColumns(counters)
	values["updated_at"] = time.Now().UTC()

	result := db.Model(&model.Article{}).Where("article_id = ?", articleID).Updates(values)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update article counters")
	}
	if result.RowsAffected == 0 {
		return ports.ErrArticleNotFound
	}
	return nil
}

func (r *ModerationRepository) TouchArticleModeratedAt(ctx context.Context, articleID uint64, at time.Time) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Article{}).
		Where("article_id = ?", articleID).
		Updates(map[string]any{"last_moderated_at": at.UTC(), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return errs.Wrap(result.Error, "touch article last_moderated_at")
	}
	if result.RowsAffected == 0 {
		return ports.ErrArticleNotFound
	}
	return nil
}

func (r *ModerationRepository) UpdateCategoryCounters(ctx context.Context, categoryID uint64, counters moderation.Counters) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	values := counterColumns(counters)
	values["updated_at"] = time.Now().UTC()

	result := db.Model(&model.Category{}).Where("category_id = ?", categoryID).Updates(values)
	if result.Error != nil {
		return errs.Wrap(result.Error, "update category counters")
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// ListArticles returns every article, or only those of categoryID when set.
func (r *ModerationRepository) ListArticles(ctx context.Context, categoryID *uint64) ([]ports.Article, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Article{})
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var rows []model.Article
	if err := query.Order("article_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query articles")
	}

	items := make([]ports.Article, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapArticle(row))
	}
	return items, nil
}

func (r *ModerationRepository) ListCategoryIDs(ctx context.Context) ([]uint64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var ids []uint64
	if err := db.Model(&model.Category{}).Order("category_id asc").Pluck("category_id", &ids).Error; err != nil {
		return nil, errs.Wrap(err, "query category ids")
	}
	return ids, nil
}
