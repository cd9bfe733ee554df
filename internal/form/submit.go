// internal/form/submit.go
//
// Consolidated decode + validate helper.
//
// Context
//   Most handlers want one call that reads the JSON body, normalises it,
//   validates it, and answers the client on failure.  Bind provides that
//   convenience so component code stays terse:
//
//     var in page.Input
//     if !form.Bind(w, r, &in) {
//         return
//     }
//
//   Malformed bodies get 400 "Invalid request body"; rule violations get the
//   400 validation payload.
//
//------------------------------------------------------------------------------

package form

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yanizio/corpsite/internal/view"
)

// MaxBody caps request bodies.
const MaxBody = 1 << 20

// Normalizer is implemented by inputs that trim or canonicalise themselves
// before validation.
type Normalizer interface {
	Normalize()
}

// ErrBadBody is returned by Decode for unreadable or non-JSON bodies.
var ErrBadBody = errors.New("invalid request body")

// Decode reads exactly one JSON value from r into dst.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBody))
	if err := dec.Decode(dst); err != nil {
		return errors.Join(ErrBadBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrBadBody
	}
	return nil
}

// Bind decodes, normalises, and validates dst.  It writes the error
// response itself and returns false when the handler should stop.
func Bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := Decode(w, r, dst); err != nil {
		view.Error(w, http.StatusBadRequest, view.MsgBadBody)
		return false
	}
	if n, ok := dst.(Normalizer); ok {
		n.Normalize()
	}
	if err := Validate(dst); err != nil {
		if fields := Fields(err); fields != nil {
			view.Invalid(w, fields)
			return false
		}
		view.Fail(w, r, err)
		return false
	}
	return true
}
