package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moderator/internal/errs"
	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

// DBCache keeps entries in the moderator_kv table so they survive restarts
// and are shared by every worker pointing at the same database.
type DBCache struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.Cache = (*DBCache)(nil)

func NewDBCache(db *gorm.DB) *DBCache {
	return &DBCache{db: db, now: time.Now}
}

func normalizeKey(ctx context.Context, key string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("key is required")
	}
	return trimmed, nil
}

func (c *DBCache) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := normalizeKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	var row model.KV
	if err := c.db.WithContext(ctx).Where("key = ?", key).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	if row.ExpiresAt != nil && !c.now().UTC().Before(*row.ExpiresAt) {
		return "", false, nil
	}
	return row.Value, true, nil
}

// Set stores value under key. A ttl of zero or less never expires.
func (c *DBCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	key, err := normalizeKey(ctx, key)
	if err != nil {
		return err
	}

	now := c.now().UTC()
	row := model.KV{Key: key, Value: value, UpdatedAt: now}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		row.ExpiresAt = &expiresAt
	}

	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"expires_at": row.ExpiresAt,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}
	return nil
}

func (c *DBCache) Delete(ctx context.Context, key string) error {
	key, err := normalizeKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.db.WithContext(ctx).Where("key = ?", key).Delete(&model.KV{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}
