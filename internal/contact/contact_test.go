package contact

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	r := NewRepository(sqlx.NewDb(raw, "mysql"))
	r.Now = func() time.Time { return fixed }
	return r, mock
}

func TestCreate_StoresMeta(t *testing.T) {
	r, mock := newRepo(t)
	longUA := strings.Repeat("x", 600)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO contact_submissions`)).
		WithArgs("Ada", "ada@example.com", "", "Hello", false,
			"203.0.113.5", "TR", strings.Repeat("x", 512), fixed, fixed).
		WillReturnResult(sqlmock.NewResult(21, 1))

	id, err := r.Create(context.Background(),
		Input{Name: "Ada", Email: "ada@example.com", Message: "Hello"},
		Meta{ClientIP: "203.0.113.5", Country: "TR", UserAgent: longUA})
	require.NoError(t, err)
	assert.Equal(t, int64(21), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_NewestFirst(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM contact_submissions ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "subject", "message", "is_read",
			"client_ip", "country", "user_agent", "created_at", "updated_at"}).
			AddRow(2, "B", "b@x.io", "", "m", false, "", "", "", fixed, fixed).
			AddRow(1, "A", "a@x.io", "", "m", true, "", "", "", fixed, fixed))

	got, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[1].IsRead)
}

func TestMarkRead(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM contact_submissions WHERE id = ?`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contact_submissions SET is_read = ?, updated_at = ? WHERE id = ?`)).
		WithArgs(true, fixed, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, r.MarkRead(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead_NotFound(t *testing.T) {
	r, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM contact_submissions WHERE id = ?`)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	assert.ErrorIs(t, r.MarkRead(context.Background(), 99), ErrNotFound)
}
