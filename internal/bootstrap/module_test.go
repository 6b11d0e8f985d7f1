package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/fx"

	domainmoderation "moderator/internal/domain/moderation"
	"moderator/internal/ports"
)

func startApp(t *testing.T) (*App, ports.ModerationRepository) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	body := "database:\n  dsn: " + filepath.ToSlash(filepath.Join(dir, "state", "moderator.sqlite")) + "\n" +
		"notify:\n  store: database\n"
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var app *App
	var repo ports.ModerationRepository
	fxApp := fx.New(
		Module,
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		fx.Provide(
			fx.Annotate(
				func() string { return configPath },
				fx.ResultTags(`name:"configFile"`),
			),
		),
		fx.Populate(&app, &repo),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fxApp.Start(ctx); err != nil {
		t.Fatalf("fx start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = fxApp.Stop(stopCtx)
	})
	return app, repo
}

func TestModuleWiresModerationStack(t *testing.T) {
	app, repo := startApp(t)
	ctx := context.Background()

	if err := app.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	if err := app.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if !app.Config.Moderation.AuditRuleDecisions {
		t.Fatalf("audit_rule_decisions default = false, want true")
	}

	category, err := repo.CreateCategory(ctx, "sport")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	article, err := repo.CreateArticle(ctx, ports.ArticleCreate{CategoryID: &category.CategoryID, SourceID: "a-1", Title: "Match report"})
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}
	comment, err := repo.CreateComment(ctx, ports.CommentCreate{ArticleID: &article.ArticleID, AuthorSourceID: "reader-1", Text: "great game"})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	jobs, err := app.Jobs.EnqueueBatch(ctx, domainmoderation.JobAcceptComments, []domainmoderation.CommentActionPayload{
		{CommentID: comment.CommentID},
	}, true)
	if err != nil {
		t.Fatalf("EnqueueBatch() error = %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID == "" {
		t.Fatalf("jobs = %+v", jobs)
	}

	got, err := app.Moderation.GetComment(ctx, comment.CommentID)
	if err != nil {
		t.Fatalf("GetComment() error = %v", err)
	}
	if !got.State.IsModerated || got.State.Accepted != domainmoderation.Accepted || got.State.IsBatchResolved {
		t.Fatalf("state = %+v", got.State)
	}

	refreshed, err := repo.GetArticle(ctx, article.ArticleID)
	if err != nil {
		t.Fatalf("GetArticle() error = %v", err)
	}
	if refreshed.Counters.Approved != 1 || refreshed.LastModeratedAt == nil {
		t.Fatalf("article = %+v", refreshed)
	}
}
