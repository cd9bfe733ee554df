package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ThemeKey is the settings key holding the active colour scheme.
const ThemeKey = "theme"

// DefaultTheme is served until an admin picks another one.
const DefaultTheme = "turquoise"

// Themes lists the accepted values.
var Themes = []string{"turquoise", "gray-green", "dark", "light"}

// ErrUnknownTheme is returned by Set for values outside Themes.
var ErrUnknownTheme = errors.New("unknown theme")

// store is the subset of Repository the cache needs.
type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// loadTimeout bounds a shared store read.  The read outlives the caller that
// started it, so it cannot use that caller's deadline.
const loadTimeout = 5 * time.Second

// ThemeCache serves the active theme from memory for ttl.  Every page view
// asks for it, so concurrent misses collapse into a single query.
type ThemeCache struct {
	store store
	ttl   time.Duration
	now   func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	value   string
	expires time.Time
	gen     uint64 // bumped by Set; loads started under an older gen are not cached
}

// NewThemeCache wraps s.  A ttl ≤ 0 disables caching.
func NewThemeCache(s store, ttl time.Duration) *ThemeCache {
	return &ThemeCache{store: s, ttl: ttl, now: time.Now}
}

// Get returns the active theme, falling back to DefaultTheme when nothing
// or an unknown value is stored.  A caller whose ctx ends stops waiting;
// the shared read carries on for the others.
func (c *ThemeCache) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	if c.value != "" && c.now().Before(c.expires) {
		v := c.value
		c.mu.RUnlock()
		return v, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	ch := c.group.DoChan(ThemeKey, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), gen)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *ThemeCache) load(ctx context.Context, gen uint64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	raw, err := c.store.Get(ctx, ThemeKey)
	switch {
	case errors.Is(err, ErrNotFound):
		raw = DefaultTheme
	case err != nil:
		return "", err
	}
	if !slices.Contains(Themes, raw) {
		raw = DefaultTheme
	}

	c.mu.Lock()
	if c.gen == gen {
		c.value, c.expires = raw, c.now().Add(c.ttl)
	}
	c.mu.Unlock()
	return raw, nil
}

// Set validates and persists theme, then drops the cached value.  Reads
// already in flight finish but their result is not cached.
func (c *ThemeCache) Set(ctx context.Context, theme string) error {
	if !slices.Contains(Themes, theme) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	if err := c.store.Set(ctx, ThemeKey, theme); err != nil {
		return err
	}
	c.mu.Lock()
	c.gen++
	c.value, c.expires = "", time.Time{}
	c.mu.Unlock()
	c.group.Forget(ThemeKey)
	return nil
}
