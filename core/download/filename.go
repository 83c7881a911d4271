package download

import (
	"regexp"
	"strings"
)

// unsafeRunes matches runs of characters outside the filesystem-safe
// set. A run collapses to a single underscore.
var unsafeRunes = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

const (
	placeholderName = "downloaded_file"
	pdfExt          = ".pdf"
)

// FilenameFromURL derives the local filename for a download URL.
// The value of the content= query parameter (up to the next &) becomes
// the name; unsafe characters collapse to underscores and a .pdf
// suffix is enforced (case-insensitive check, case-preserving append).
// A URL without a content= parameter maps to a fixed placeholder.
// Deterministic: the same URL always yields the same name, so each
// document identifier owns exactly one path in the store.
func FilenameFromURL(rawURL string) string {
	name := placeholderName
	if _, value, ok := strings.Cut(rawURL, "content="); ok {
		value, _, _ = strings.Cut(value, "&")
		name = unsafeRunes.ReplaceAllString(strings.TrimSpace(value), "_")
	}
	if !strings.HasSuffix(strings.ToLower(name), pdfExt) {
		name += pdfExt
	}
	return name
}
