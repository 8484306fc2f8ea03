package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugger produces GitHub-compatible heading anchors. Repeated slugs within
// one document get "-1", "-2", ... suffixes; a heading with no letters or
// digits slugs to "" the first time and "-1", "-2", ... afterwards. A Slugger is not safe for
// concurrent use; create one per document.
type Slugger struct {
	occurrences map[string]int
	lower       cases.Caser
}

// NewSlugger returns an empty slugger.
func NewSlugger() *Slugger {
	return &Slugger{
		occurrences: make(map[string]int),
		lower:       cases.Lower(language.Und),
	}
}

// Slug returns a unique slug for value and records it.
func (s *Slugger) Slug(value string) string {
	slug := s.base(value)
	original := slug
	for {
		if _, taken := s.occurrences[slug]; !taken {
			break
		}
		s.occurrences[original]++
		slug = original + "-" + strconv.Itoa(s.occurrences[original])
	}
	s.occurrences[slug] = 0
	return slug
}

// Reserve marks an id that already exists in the document so generated slugs avoid it.
func (s *Slugger) Reserve(id string) {
	if _, ok := s.occurrences[id]; !ok {
		s.occurrences[id] = 0
	}
}

// base lowercases value, drops punctuation and symbols, and turns spaces into hyphens.
func (s *Slugger) base(value string) string {
	value = s.lower.String(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
