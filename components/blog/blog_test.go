package blog

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/corpsite/internal/component"
)

var cols = []string{"id", "title", "slug", "content", "excerpt", "featured_image_url",
	"meta_description", "is_published", "created_at", "updated_at"}

var ts = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	c := &Component{}
	require.NoError(t, c.Init(component.Deps{DB: sqlx.NewDb(raw, "mysql")}))
	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		c.Public(api)
		api.Route("/admin", c.Admin)
	})
	return r, mock
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestBySlug_RendersMarkdown(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND is_published = ?`)).
		WithArgs("launch", true).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Launch", "launch", "## Today\n\nWe *ship*.", "", "", "", true, ts, ts))

	rec := do(h, http.MethodGet, "/api/blog/launch", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Slug        string `json:"slug"`
		ContentHTML string `json:"content_html"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "launch", got.Slug)
	assert.Equal(t, "<h2 id=\"today\">Today</h2>\n<p>We <em>ship</em>.</p>\n", got.ContentHTML)
}

func TestBySlug_Draft404(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE slug = ? AND is_published = ?`)).
		WillReturnError(sql.ErrNoRows)

	rec := do(h, http.MethodGet, "/api/blog/draft", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Post not found"}`, rec.Body.String())
}

func TestPublished_RouteNotShadowed(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM blog_posts WHERE is_published = ? ORDER BY created_at DESC`)).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows(cols))

	rec := do(h, http.MethodGet, "/api/blog/published", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreate(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM blog_posts WHERE slug = ?`)).
		WithArgs("yeni-urun", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO blog_posts`)).
		WillReturnResult(sqlmock.NewResult(3, 1))

	rec := do(h, http.MethodPost, "/api/admin/blog", `{"title":"Yeni Ürün","is_published":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":3,"slug":"yeni-urun"}`, rec.Body.String())
}

func TestCreate_BadImageURL(t *testing.T) {
	h, _ := setup(t)
	rec := do(h, http.MethodPost, "/api/admin/blog", `{"title":"x","featured_image_url":"not a url"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"featured_image_url"`)
}

func TestDelete_NotFound(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM blog_posts WHERE id = ?`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := do(h, http.MethodDelete, "/api/admin/blog/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
