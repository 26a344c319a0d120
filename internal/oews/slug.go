package oews

import (
	"regexp"
	"strings"
)

const slugMaxLen = 200

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugHyphens = regexp.MustCompile(`-+`)
)

// Slugify maps a free-text title to a URL-safe identifier. Pure and
// deterministic: the same title always yields the same slug. Distinct
// titles can collide; the deduplicator detects that before anything is
// written (see Deduplicator.SlugCollisions).
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = s[:slugMaxLen]
	}
	return s
}
