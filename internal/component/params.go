package component

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/corpsite/internal/view"
)

// IDParam parses the {id} URL parameter.  On failure it answers 400 and
// returns false.
func IDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		view.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// QueryBool reports whether the query parameter name is "true" or "1".
func QueryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// Success is the body returned by writes that have nothing else to say.
type Success struct {
	Success bool `json:"success"`
}

// OK writes `{"success": true}`.
func OK(w http.ResponseWriter) {
	view.JSON(w, http.StatusOK, Success{Success: true})
}
