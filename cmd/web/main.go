// cmd/web/main.go
//
// corpsite – HTTP entry point.
//
// Start-up
// --------
//
//  1. Load env vars (host-wide file → .env fallback).
//
//  2. Boot: Vault (optional), config, rotating logger, database pool.
//
//  3. Apply component migrations when database.migrate is set.
//
//  4. Wire shared services: GeoIP reader, JWT signer, theme cache, and the
//     contact publisher (NATS when nats.url is set, log otherwise).
//
//  5. Init every registered component and mount it on the chi router.
//
//  6. Watch conf/site.yaml; a valid edit updates the log level in place.
//
//  7. Serve until SIGINT/SIGTERM, then drain within the shutdown budget.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/yanizio/corpsite/components/all"
	"github.com/yanizio/corpsite/internal/app"
	"github.com/yanizio/corpsite/internal/auth"
	"github.com/yanizio/corpsite/internal/component"
	"github.com/yanizio/corpsite/internal/config"
	"github.com/yanizio/corpsite/internal/logger"
	"github.com/yanizio/corpsite/internal/message"
	"github.com/yanizio/corpsite/internal/requestinfo"
	"github.com/yanizio/corpsite/internal/router"
	"github.com/yanizio/corpsite/internal/server"
	"github.com/yanizio/corpsite/internal/settings"
)

const (
	serverEnvPath = "/usr/local/etc/corpsite/global.env"
	themeTTL      = 30 * time.Second
)

// loadEnv prefers the host-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("corpsite: %v", err)
	}
}

func run(ctx context.Context) error {
	//
	// ── 1.  Boot ────────────────────────────────────────────────────────
	//
	a, err := app.Boot(ctx, app.Options{Console: runningInTTY()})
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.Config

	comps := component.All()
	if cfg.Database.Migrate {
		if err := a.Migrate(ctx, comps); err != nil {
			return err
		}
	}

	//
	// ── 2.  Shared services ─────────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.GeoIP.DB); err != nil {
		a.Log.Warnw("geoip disabled", "err", err)
	}
	defer requestinfo.CloseGeo()

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	var pub message.Publisher = message.LogPublisher{Log: a.Log}
	if cfg.NATS.URL != "" {
		nc, err := message.DialNATS(cfg.NATS.URL, a.Log)
		if err != nil {
			return err
		}
		pub = nc
		a.Log.Infow("nats online", "url", cfg.NATS.URL, "subject", cfg.NATS.Subject)
	}
	defer pub.Close()

	deps := component.Deps{
		DB:        a.DB,
		Driver:    cfg.Database.Driver,
		Log:       a.Log,
		Config:    cfg,
		Tokens:    tokens,
		Themes:    settings.NewThemeCache(settings.NewRepository(a.DB, cfg.Database.Driver), themeTTL),
		Publisher: pub,
	}

	//
	// ── 3.  Components + router ─────────────────────────────────────────
	//
	for _, c := range comps {
		if err := c.Init(deps); err != nil {
			return err
		}
		a.Log.Debugw("component ready", "name", c.Name())
	}
	handler := router.New(deps, comps)

	//
	// ── 4.  Config hot reload ───────────────────────────────────────────
	//
	if err := config.Watch(ctx, func(next *config.Config) {
		if err := logger.SetLevel(next.Log.Level); err != nil {
			a.Log.Warnw("log level unchanged", "err", err)
			return
		}
		a.Log.Infow("config reloaded", "log_level", next.Log.Level)
	}); err != nil {
		a.Log.Warnw("config watch disabled", "err", err)
	}

	//
	// ── 5.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler, server.Timeouts{
		Read:     cfg.HTTP.ReadTimeout,
		Write:    cfg.HTTP.WriteTimeout,
		Idle:     cfg.HTTP.IdleTimeout,
		Shutdown: cfg.HTTP.ShutdownTimeout,
	})
	a.Log.Infow("listening", "addr", cfg.HTTP.ListenAddr, "components", len(comps))
	if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.Log.Info("shutdown complete")
	return nil
}
