package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/newsfeed/app/models"
	"github.com/ManuelReschke/newsfeed/app/repository"
	"github.com/ManuelReschke/newsfeed/internal/pkg/apperr"
	"github.com/ManuelReschke/newsfeed/internal/pkg/config"
	"github.com/ManuelReschke/newsfeed/internal/pkg/database"
)

func newTestRepo(t *testing.T) (repository.NewsfeedRepository, models.User) {
	t.Helper()
	db, err := database.SetupDatabase(config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on",
		MaxRetries:  1,
		AutoMigrate: true,
	}, "error", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	owner := models.User{Username: "editor", Valid: true}
	require.NoError(t, db.Create(&owner).Error)
	return repository.NewNewsfeedRepository(db, repository.WithPerPage(5)), owner
}

func TestRunFeedAndSearch(t *testing.T) {
	repo, owner := newTestRepo(t)
	ctx := context.Background()

	in := repository.NewsInput{Title: "Go 1.25 released", Summary: "s", Content: "c", Slug: "go-125", Active: true, Tags: "go"}
	_, err := repo.Store(ctx, in, owner.ID)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(ctx, repo, []string{"feed"}, &out))
	assert.Contains(t, out.String(), "Go 1.25 released")
	assert.Contains(t, out.String(), "page 1/1, 1 news")

	out.Reset()
	require.NoError(t, run(ctx, repo, []string{"search", "RELEASED", "1"}, &out))
	assert.Contains(t, out.String(), "go-125 (editor)")

	out.Reset()
	require.NoError(t, run(ctx, repo, []string{"show", "go-125"}, &out))
	assert.Contains(t, out.String(), "by editor [go]")
	assert.Contains(t, out.String(), "0 comment(s)")

	out.Reset()
	require.NoError(t, run(ctx, repo, []string{"admin"}, &out))
	assert.Contains(t, out.String(), "active=true")
}

func TestRunTagAndPurge(t *testing.T) {
	repo, owner := newTestRepo(t)
	ctx := context.Background()

	news, err := repo.Store(ctx, repository.NewsInput{Title: "t", Summary: "s", Content: "c", Slug: "t", Active: true, Tags: "keep,drop"}, owner.ID)
	require.NoError(t, err)
	loaded, err := repo.GetByIDWithTags(ctx, news.ID)
	require.NoError(t, err)

	var keepID uint
	for _, tag := range loaded.Tags {
		if tag.Label == "keep" {
			keepID = tag.ID
		}
	}
	require.NotZero(t, keepID)

	var out bytes.Buffer
	require.NoError(t, run(ctx, repo, []string{"tag", strconv.FormatUint(uint64(keepID), 10)}, &out))
	assert.Contains(t, out.String(), "#keep")

	require.NoError(t, repo.Update(ctx, repository.NewsInput{Title: "t", Summary: "s", Content: "c", Slug: "t", Active: true, Tags: "keep"}, loaded))

	out.Reset()
	require.NoError(t, run(ctx, repo, []string{"purge-tags"}, &out))
	assert.Equal(t, "purged 1 tag(s)\n", out.String())
}

func TestRunErrors(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	var out bytes.Buffer

	assert.ErrorIs(t, run(ctx, repo, nil, &out), errUsage)
	assert.ErrorIs(t, run(ctx, repo, []string{"unknown"}, &out), errUsage)
	assert.ErrorIs(t, run(ctx, repo, []string{"search"}, &out), errUsage)
	assert.Error(t, run(ctx, repo, []string{"feed", "x"}, &out))
	assert.Error(t, run(ctx, repo, []string{"tag", "abc"}, &out))

	err := run(ctx, repo, []string{"show", "missing"}, &out)
	assert.True(t, apperr.IsNotFound(err))
}

func TestExecuteRunsAgainstConfiguredDatabase(t *testing.T) {
	cfg := &config.Config{
		LogLevel: "error",
		DB: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        filepath.Join(t.TempDir(), "newsfeed.db"),
			MaxRetries:  1,
			AutoMigrate: true,
		},
		Feed: config.FeedConfig{PerPage: 5},
	}

	assert.ErrorIs(t, execute(cfg, nil, zerolog.Nop()), errUsage)
	require.NoError(t, execute(cfg, []string{"purge-tags"}, zerolog.Nop()))
	assert.ErrorIs(t, execute(cfg, []string{"nope"}, zerolog.Nop()), errUsage)
}
