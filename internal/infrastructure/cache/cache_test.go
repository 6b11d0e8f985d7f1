package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"moderator/internal/infrastructure/persistence/relational/model"
	"moderator/internal/ports"
)

func setupDBCache(t *testing.T) *DBCache {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "kv.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(&model.KV{}); err != nil {
		t.Fatalf("auto migrate moderator_kv: %v", err)
	}
	return NewDBCache(db)
}

func exerciseCache(t *testing.T, cache ports.Cache) {
	t.Helper()
	ctx := context.Background()

	if err := cache.Set(ctx, "article:7", `{"all":3}`, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := cache.Get(ctx, " article:7 ")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != `{"all":3}` {
		t.Fatalf("Get() = %q, found=%v", value, found)
	}

	if err := cache.Set(ctx, "article:7", `{"all":4}`, 0); err != nil {
		t.Fatalf("Set(update) error = %v", err)
	}
	value, found, err = cache.Get(ctx, "article:7")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != `{"all":4}` {
		t.Fatalf("Get() after update = %q, found=%v", value, found)
	}

	if err := cache.Delete(ctx, "article:7"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, err := cache.Get(ctx, "article:7"); err != nil || found {
		t.Fatalf("Get() after delete found=%v err=%v", found, err)
	}

	if err := cache.Set(ctx, "  ", "x", 0); err == nil {
		t.Fatalf("Set(blank key) expected error")
	}
}

func TestDBCacheSetGetDelete(t *testing.T) {
	exerciseCache(t, setupDBCache(t))
}

func TestMemoryCacheSetGetDelete(t *testing.T) {
	exerciseCache(t, NewMemoryCache(time.Minute))
}

func TestDBCacheExpiresEntries(t *testing.T) {
	cache := setupDBCache(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "category:1", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := cache.Get(ctx, "category:1"); !found {
		t.Fatalf("Get() before expiry found=false")
	}

	now = now.Add(2 * time.Minute)
	if _, found, _ := cache.Get(ctx, "category:1"); found {
		t.Fatalf("Get() after expiry found=true")
	}
}

func TestCacheRejectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := NewMemoryCache(time.Minute).Get(ctx, "k"); err == nil {
		t.Fatalf("Get() with canceled context expected error")
	}
}
