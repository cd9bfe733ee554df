package slug

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// MaxAttempts bounds the suffix search in Unique.
const MaxAttempts = 1000

// MaxLen is the width of the slug columns.
const MaxLen = 191

// suffixRoom is the longest suffix Unique may append ("-1000").
var suffixRoom = len("-" + strconv.Itoa(MaxAttempts))

// ErrExhausted is returned when every candidate up to MaxAttempts is taken.
var ErrExhausted = errors.New("slug: no free candidate")

// TakenFunc reports whether candidate is already used by another record.
type TakenFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns base when it is free, otherwise the first free of base-2,
// base-3, and so on.  An empty base is replaced by fallback so titles made
// only of punctuation still get a usable key.
func Unique(ctx context.Context, base, fallback string, taken TakenFunc) (string, error) {
	if base == "" {
		base = fallback
	}

	candidate := base
	for i := 2; i <= MaxAttempts+1; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", ErrExhausted
}

// Fit shortens a generated slug so that it, plus any suffix Unique adds,
// stays within MaxLen.  The cut lands on a hyphen when the limit falls
// inside a word; a single word longer than the limit is cut hard.
func Fit(s string) string {
	limit := MaxLen - suffixRoom
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if s[limit] != '-' {
		if i := strings.LastIndexByte(cut, '-'); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, "-")
}
