package health

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/corpsite/internal/component"
)

func serve(t *testing.T, ping error) *httptest.ResponseRecorder {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatal(err)
	}
	defer raw.Close()
	mock.ExpectPing().WillReturnError(ping)

	c := &Component{}
	_ = c.Init(component.Deps{DB: sqlx.NewDb(raw, "mysql")})
	c.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Route("/api", c.Public)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	return rec
}

func TestHealth_OK(t *testing.T) {
	rec := serve(t, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	want := `{"status":"ok","timestamp":"2025-01-01T00:00:00Z"}` + "\n"
	if rec.Body.String() != want {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestHealth_DBDown(t *testing.T) {
	rec := serve(t, errors.New("dial tcp: refused"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
}
