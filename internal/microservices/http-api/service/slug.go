package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	minSlugLength  = 3
	maxSlugLength  = 64
	slugBaseLength = 48
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s can be used as a public slug.
func IsValidSlug(s string) bool {
	return len(s) >= minSlugLength && len(s) <= maxSlugLength && slugPattern.MatchString(s)
}

// Slugify folds accents and reduces a title to lowercase words joined by
// dashes, e.g. "Château Night!" becomes "chateau-night".
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= slugBaseLength {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

// generateSlug appends a short random suffix so equal titles get distinct
// slugs.
func generateSlug(title string) string {
	base := Slugify(title)
	if base == "" {
		base = "tasting"
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}
