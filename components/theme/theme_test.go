package theme

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/corpsite/internal/component"
)

func setup(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	c := &Component{}
	require.NoError(t, c.Init(component.Deps{DB: sqlx.NewDb(raw, "mysql"), Driver: "mysql"}))
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

func TestGet_Default(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `value` FROM settings")).
		WillReturnError(sql.ErrNoRows)

	rec := do(h, http.MethodGet, "/api/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"turquoise"}`, rec.Body.String())
}

func TestSet_ThenGetSkipsStaleCache(t *testing.T) {
	h, mock := setup(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `value` FROM settings")).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("light"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO settings")).
		WithArgs("theme", "dark", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `value` FROM settings")).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("dark"))

	assert.JSONEq(t, `{"theme":"light"}`, do(h, http.MethodGet, "/api/theme", "").Body.String())
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, "/api/admin/theme", `{"theme":"dark"}`).Code)
	assert.JSONEq(t, `{"theme":"dark"}`, do(h, http.MethodGet, "/api/theme", "").Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_RejectsUnknown(t *testing.T) {
	h, _ := setup(t)
	rec := do(h, http.MethodPost, "/api/admin/theme", `{"theme":"neon"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Must be one of: turquoise, gray-green, dark, light.")
}
