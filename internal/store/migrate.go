package store

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"marketdesk-api/internal/store/migrations"
)

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// RunMigrations applies every embedded migration that has not been recorded
// in schema_migrations yet and returns the versions it applied.
func RunMigrations(ctx context.Context, conn sqlx.SqlConn) ([]string, error) {
	if _, err := conn.ExecCtx(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	var applied []string
	for _, file := range files {
		version := strings.TrimSuffix(file, ".sql")
		var count int
		if err := conn.QueryRowCtx(ctx, &count, `SELECT COUNT(*) FROM schema_migrations WHERE version = $1`, version); err != nil {
			return applied, fmt.Errorf("check migration %s: %w", version, err)
		}
		if count > 0 {
			continue
		}
		body, err := migrations.FS.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}
		err = conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
			if _, err := session.ExecCtx(ctx, string(body)); err != nil {
				return err
			}
			_, err := session.ExecCtx(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", version, err)
		}
		logx.WithContext(ctx).Infof("store: applied migration %s", version)
		applied = append(applied, version)
	}
	return applied, nil
}
