// internal/slug/slug.go
//
// Slug helpers.
//
// • Generate(title) ─ converts a page or post title into the lower-kebab
//   ASCII key used by the public "fetch by slug" endpoints.
// • Unique(ctx, base, fallback, taken) ─ suffixes a slug with "-2", "-3", …
//   until the store reports it free.
//
// Rules (Generate)
// ----------------
// 1. Lower-case everything.
// 2. Fold Turkish letters (ş ç ğ ü ö ı and their capitals) to ASCII.
// 3. Drop every rune that is not a-z, 0-9, whitespace, or “-”.  Whitespace
//    is unicode.IsSpace plus U+FEFF (BOM), minus U+0085 (NEL).
// 4. Turn each whitespace run into one “-”.
// 5. Collapse consecutive “-” to a single “-”.
// 6. Trim leading / trailing “-” and whitespace.
//
// Notes
// -----
// • Step order matters; each step works on the output of the previous one.
// • The fold table is an explicit list.  NFKD would not map dotless ı.
// • Empty input yields "".  Callers reject empty titles before this point.

package slug

import (
	"strings"
	"unicode"
)

// turkish folds the letters the site content actually uses.  Capitals are
// listed too so the table stays correct if step order ever changes.
var turkish = strings.NewReplacer(
	"ş", "s", "Ş", "s",
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u",
	"ö", "o", "Ö", "o",
	"ı", "i", "İ", "i",
)

// Generate converts title → lower-kebab ASCII.  Pure and safe for
// concurrent use.
func Generate(title string) string {
	s := strings.ToLower(title)
	s = turkish.Replace(s)
	s = strip(s)
	s = dashSpaces(s)
	s = collapseDashes(s)
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '-' || isSpace(r)
	})
}

// isSpace is unicode.IsSpace plus the byte order mark, minus NEL.
func isSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// strip keeps a-z, 0-9, whitespace, and “-”.
func strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case isSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dashSpaces replaces each run of whitespace with a single “-”.
func dashSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		b.WriteRune(r)
		inSpace = false
	}
	return b.String()
}

// collapseDashes replaces runs of “-” with one “-”.
func collapseDashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasDash := false
	for _, r := range s {
		if r == '-' {
			if lastWasDash {
				continue
			}
			lastWasDash = true
		} else {
			lastWasDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
