// Package cmd provides shared construction helpers for service
// entrypoints.
package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dukex/tempo/pkg/persistence"
	"github.com/dukex/tempo/pkg/persistence/file"
	"github.com/dukex/tempo/pkg/persistence/postgresql"
	"github.com/dukex/tempo/pkg/persistence/redis"
)

// NewPersistence creates a persistence backend from the database URL
// scheme: postgres:// and postgresql:// for PostgreSQL, redis:// for
// Redis, anything else is treated as a file path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to initialize PostgreSQL persistence", "error", err)
			panic(err)
		}

		return p
	case "redis":
		p, err := redis.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to initialize Redis persistence", "error", err)
			panic(err)
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parseProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
