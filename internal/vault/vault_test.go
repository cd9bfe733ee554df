package vault

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	vault "github.com/hashicorp/vault/api"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		ref, path, key string
		ok             bool
	}{
		{"secret/corpsite#dsn", "secret/corpsite", "dsn", true},
		{"kv/a/b#jwt", "kv/a/b", "jwt", true},
		{"secret/corpsite", "", "", false},
		{"corpsite#dsn", "", "", false},
		{"secret/corpsite#", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		p, k, err := ParseRef(tc.ref)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseRef(%q) err = %v", tc.ref, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrBadRef) {
				t.Fatalf("ParseRef(%q) err = %v, want ErrBadRef", tc.ref, err)
			}
			continue
		}
		if p != tc.path || k != tc.key {
			t.Fatalf("ParseRef(%q) = %q, %q", tc.ref, p, k)
		}
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("secret/corpsite/db")
	if m != "secret" || r != "corpsite/db" {
		t.Fatalf("splitMount = %q, %q", m, r)
	}
}

// kvServer answers KV-v2 reads for secret/corpsite and counts hits.
func kvServer(t *testing.T, hits *int32) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/corpsite" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"dsn":"user:pw@tcp(db)/site","port":3306},"metadata":{"version":1}}}`))
	}))
	t.Cleanup(srv.Close)

	cfg := vault.DefaultConfig()
	cfg.Address = srv.URL
	api, err := vault.NewClient(cfg)
	if err != nil {
		t.Fatalf("vault client: %v", err)
	}
	api.SetToken("test")
	return wrap(api, nil)
}

func TestResolve_CachesValue(t *testing.T) {
	var hits int32
	c := kvServer(t, &hits)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		v, err := c.Resolve(ctx, "secret/corpsite#dsn")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if v != "user:pw@tcp(db)/site" {
			t.Fatalf("Resolve = %q", v)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("server hits = %d, want 1 (cached)", n)
	}
}

func TestGetKV_Errors(t *testing.T) {
	var hits int32
	c := kvServer(t, &hits)
	ctx := context.Background()

	if _, err := c.GetKV(ctx, "secret/corpsite", "missing", 0); err == nil {
		t.Fatalf("expected missing-key error")
	}
	if _, err := c.GetKV(ctx, "secret/corpsite", "port", 0); err == nil {
		t.Fatalf("expected non-string error")
	}
	if _, err := c.GetKV(ctx, "", "k", time.Minute); err == nil {
		t.Fatalf("expected empty-path error")
	}
}
