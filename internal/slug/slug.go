// Package slug turns proposed tool names into filesystem- and URL-safe
// identifiers and resolves collisions with existing tool pages.
package slug

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is used when nothing survives normalization.
const Fallback = "tool"

// DateLayout is the suffix format used to disambiguate collisions.
const DateLayout = "2006-01-02"

var (
	disallowed = regexp.MustCompile(`[^a-z0-9-]+`)
	dashes     = regexp.MustCompile(`-{2,}`)
)

// Normalize lowercases s, folds accented letters to their base form and
// reduces everything else outside [a-z0-9-] to single hyphens. Leading and
// trailing hyphens are trimmed; an empty result becomes Fallback.
func Normalize(s string) string {
	s = strings.ToLower(fold(s))
	s = disallowed.ReplaceAllString(s, "-")
	s = dashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// FromSpec normalizes the proposed slug, or the title when the slug is blank.
func FromSpec(proposed, title string) string {
	if strings.TrimSpace(proposed) == "" {
		return Normalize(title)
	}
	return Normalize(proposed)
}

// Resolve appends -<date> to s when exists reports a collision. The
// suffixed slug is not checked again: two same-day runs that land on the
// same suffixed slug overwrite each other.
func Resolve(exists func(string) bool, s string, date time.Time) string {
	if exists != nil && exists(s) {
		return s + "-" + date.Format(DateLayout)
	}
	return s
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
