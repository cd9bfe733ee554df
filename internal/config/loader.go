// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/site.yaml` (optional; a pure-env deployment may omit it).
  3. Environment variables prefixed `CORPSITE_`, where `__` maps to “.”
     (e.g., `CORPSITE_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, every string that starts with `vault:` is swapped for the
secret it names, the tree is unmarshalled into typed structs, defaults are
filled, the result is validated and cached in an `atomic.Pointer` for
lock-free reads.  `Reload()` calls `Load()` again and swaps the pointer.
`Watch()` does the same whenever site.yaml changes on disk.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, secret resolution.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span:  final “config loaded” with key highlights.
  • Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix   = "CORPSITE_"
	envRoot     = "CORPSITE_ROOT"
	fileName    = "site.yaml"
	vaultPrefix = "vault:"
)

// SecretResolver turns a `vault:<mount/path>#<key>` reference (prefix
// already removed) into its plaintext value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

var (
	current atomic.Pointer[Config]

	resolverMu sync.RWMutex
	resolver   SecretResolver
)

// UseSecrets installs r for subsequent Load calls.  nil disables resolution;
// any remaining `vault:` value then fails Load.
func UseSecrets(r SecretResolver) {
	resolverMu.Lock()
	resolver = r
	resolverMu.Unlock()
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CORPSITE_ROOT or climbs directories until conf/site.yaml
// is found.  Falls back to the executable heuristic for a bin/ layout.
func rootDir() string {
	if r := os.Getenv(envRoot); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", fileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

// Path returns the site.yaml location for root.
func Path(root string) string { return filepath.Join(root, "conf", fileName) }

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := Path(root)
	switch err := k.Load(file.Provider(yamlPath), yaml.Parser()); {
	case errors.Is(err, fs.ErrNotExist):
		zap.S().Debugw("config yaml absent, env only", "file", yamlPath)
	case err != nil:
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	default:
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// CORPSITE_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, k); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	applyDefaults(&cfg)
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"driver", cfg.Database.Driver,
		"orphans", cfg.Pages.Orphans,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps CORPSITE_AUTH__JWT_SECRET to auth.jwt_secret.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

func resolveSecrets(ctx context.Context, k *koanf.Koanf) error {
	resolverMu.RLock()
	r := resolver
	resolverMu.RUnlock()

	for key, val := range k.All() {
		s, ok := val.(string)
		if !ok || !strings.HasPrefix(s, vaultPrefix) {
			continue
		}
		if r == nil {
			return fmt.Errorf("%s: vault reference but no secret resolver configured", key)
		}
		plain, err := r.Resolve(ctx, strings.TrimPrefix(s, vaultPrefix))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := k.Set(key, plain); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last successfully loaded Config, or nil before Load.
func Get() *Config { return current.Load() }

// Reload re-runs Load; on failure the previous Config stays current.
func Reload(ctx context.Context) error { _, err := Load(ctx); return err }

// Watch reloads whenever site.yaml changes and hands each new Config to
// onChange.  Failed reloads are logged and keep the previous Config.  The
// watcher stops when ctx is cancelled.
func Watch(ctx context.Context, onChange func(*Config)) error {
	cfg := Get()
	if cfg == nil {
		return errors.New("config: Watch before Load")
	}
	fp := file.Provider(Path(cfg.Paths.Root))
	err := fp.Watch(func(_ interface{}, err error) {
		if err != nil {
			zap.S().Warnw("config watch error", "err", err)
			return
		}
		next, err := Load(ctx)
		if err != nil {
			zap.S().Warnw("config reload rejected", "err", err)
			return
		}
		if onChange != nil {
			onChange(next)
		}
	})
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = fp.Unwatch()
	}()
	return nil
}
