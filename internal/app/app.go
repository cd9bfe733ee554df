// internal/app/app.go
//
// Process bootstrap shared by cmd/web and cmd/sitectl.
//
// Boot order
// ----------
//  1. Vault client, when VAULT_ADDR is set, so `vault:` config values
//     resolve.
//  2. config.Load (conf/.env → conf/site.yaml → CORPSITE_* env).
//  3. Rotating zap logger from the log section.
//  4. sqlx pool for the configured driver.
//
// Each step logs its outcome; the first failure aborts Boot and releases
// what was already opened.

package app

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/config"
	"github.com/yanizio/corpsite/internal/database"
	"github.com/yanizio/corpsite/internal/logger"
	"github.com/yanizio/corpsite/internal/vault"
)

// App holds the long-lived handles opened by Boot.
type App struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	DB     *sqlx.DB
}

// Options tweaks Boot for the caller.
type Options struct {
	// Console forces a stdout tee regardless of log.console.
	Console bool
}

// Boot runs the start-up sequence.  ctx bounds the Vault renewal loop.
func Boot(ctx context.Context, o Options) (*App, error) {
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, zap.S().Infof)
		if err != nil {
			return nil, err
		}
		config.UseSecrets(vc)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Dir:     cfg.Log.Dir,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console || o.Console,
	})
	if err != nil {
		return nil, fmt.Errorf("start logger: %w", err)
	}

	log.Infow("connecting to database", "driver", cfg.Database.Driver)
	var db *sqlx.DB
	if cfg.Database.MaxOpen > 0 {
		db, err = database.OpenWithOptions(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpen, cfg.Database.MaxIdle)
	} else {
		db, err = database.Open(cfg.Database.Driver, cfg.Database.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Infow("database online", "driver", cfg.Database.Driver)

	return &App{Config: cfg, Log: log, DB: db}, nil
}

// Migrate applies the DDL of comps.
func (a *App) Migrate(ctx context.Context, comps []component.Component) error {
	stmts := component.Migrations(comps, a.Config.Database.Driver)
	if err := database.Migrate(ctx, a.DB, stmts); err != nil {
		return err
	}
	a.Log.Infow("schema migrated", "statements", len(stmts), "components", len(comps))
	return nil
}

// Close releases the pool and flushes the logger.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
}
