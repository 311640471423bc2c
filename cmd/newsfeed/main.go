package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ManuelReschke/newsfeed/app/repository"
	"github.com/ManuelReschke/newsfeed/internal/pkg/cache"
	"github.com/ManuelReschke/newsfeed/internal/pkg/config"
	"github.com/ManuelReschke/newsfeed/internal/pkg/database"
	"github.com/ManuelReschke/newsfeed/internal/pkg/env"
	"github.com/ManuelReschke/newsfeed/internal/pkg/logger"
)

func main() {
	envFile, envErr := env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.IsDev())
	if envErr != nil {
		log.Warn().Err(envErr).Str("file", envFile).Msg("failed to load env file")
	}

	if err := execute(cfg, os.Args[1:], log); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			log.Error().Err(err).Strs("args", os.Args[1:]).Msg("command failed")
		}
		os.Exit(1)
	}
}

// execute wires database, cache and repositories and runs one command.
// Every resource it opens is released before it returns.
func execute(cfg *config.Config, args []string, log zerolog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.SetupDatabase(cfg.DB, cfg.LogLevel, log)
	if err != nil {
		return fmt.Errorf("database setup: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	opts := []repository.Option{
		repository.WithLogger(log),
		repository.WithPerPage(cfg.Feed.PerPage),
	}
	if cfg.Cache.Enabled {
		client := cache.NewClient(ctx, cfg.Cache, log)
		defer client.Close()
		opts = append(opts, repository.WithLabelCache(cache.NewTagLabelCache(client, cfg.Cache.TTL)))
	}
	repository.InitializeFactory(db, opts...)

	return run(ctx, repository.GetGlobalRepositories().Newsfeed, args, os.Stdout)
}

func printUsage() {
	fmt.Println("Usage: go run cmd/newsfeed/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  feed [page]            - list the active news, newest first")
	fmt.Println("  search <text> [page]   - search the active news")
	fmt.Println("  tag <tag-id> [page]    - list the active news carrying a tag")
	fmt.Println("  show <slug>            - show a news with its comments")
	fmt.Println("  admin [page] [user-id] - list every news for moderation")
	fmt.Println("  purge-tags             - delete tags no news refers to")
}
