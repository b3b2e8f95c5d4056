// Package excerpt builds the short HTML previews shown in post listings.
//
// An authored excerpt always wins. Otherwise the post body is cut at the
// "more" marker, or truncated to a fixed number of characters, after code
// blocks and headings have been removed and every tag other than inline
// <code> has been stripped.
package excerpt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultLength is the truncation length used when none is given.
	DefaultLength = 255

	// MoreMarker ends the preview region of a post when present.
	MoreMarker = "<!-- more -->"

	// Ellipsis is appended to truncated excerpts.
	Ellipsis = "..."

	codeOpen  = "<code>"
	codeClose = "</code>"
)

// Page is the part of a post the extractor reads.
type Page struct {
	Excerpt string // authored excerpt, may contain HTML; empty means absent
	Content string // rendered HTML body
}

var rePartialWord = regexp.MustCompile(`\s+\S*$`)

// Extract returns the listing excerpt for p. A maxLength <= 0 selects
// DefaultLength.
func Extract(p Page, maxLength int) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	if maxLength <= 0 {
		maxLength = DefaultLength
	}

	head, _, found := strings.Cut(p.Content, MoreMarker)
	cleaned := Clean(head)
	if found {
		return cleaned
	}
	return Truncate(cleaned, maxLength)
}

// Truncate shortens cleaned text to at most maxLength characters. Text that
// already fits is returned unchanged. Otherwise the trailing partial word is
// dropped, an open <code> span is closed and Ellipsis is appended.
func Truncate(cleaned string, maxLength int) string {
	if utf8.RuneCountInString(cleaned) <= maxLength {
		return cleaned
	}

	cut := prefix(cleaned, maxLength)
	// A cut inside "<code>" or "</code>" markup backs off to the tag start.
	if i := strings.LastIndexByte(cut, '<'); i >= 0 && isPartialCodeTag(cut[i:]) {
		cut = cut[:i]
	}
	cut = rePartialWord.ReplaceAllString(cut, "")

	if strings.Count(cut, codeOpen) > strings.Count(cut, codeClose) {
		cut += codeClose
	}
	return cut + Ellipsis
}

// isPartialCodeTag reports whether tail is a proper prefix of the <code>
// or </code> markup. A literal "<" in the text is not.
func isPartialCodeTag(tail string) bool {
	return (len(tail) < len(codeOpen) && strings.HasPrefix(codeOpen, tail)) ||
		(len(tail) < len(codeClose) && strings.HasPrefix(codeClose, tail))
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
