package apimodel

import "strings"

// TokenKind distinguishes plain text from references to other declarations.
type TokenKind string

const (
	TokenContent   TokenKind = "Content"
	TokenReference TokenKind = "Reference"
)

// Token is a span of a declaration's source text.
type Token struct {
	Kind               TokenKind `json:"kind"`
	Text               string    `json:"text"`
	CanonicalReference string    `json:"canonicalReference,omitempty"`
}

// Excerpt is a contiguous range of tokens, e.g. the type of a parameter.
type Excerpt struct {
	Tokens []Token
}

// Text concatenates the token text.
func (e Excerpt) Text() string {
	var b strings.Builder
	for _, t := range e.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// IsEmpty reports whether the excerpt has no visible text.
func (e Excerpt) IsEmpty() bool {
	return strings.TrimSpace(e.Text()) == ""
}

type tokenRange struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

func (r *tokenRange) valid(n int) bool {
	return r.StartIndex >= 0 && r.StartIndex <= r.EndIndex && r.EndIndex <= n
}

func containsRest(text, name string) bool {
	return strings.Contains(text, "..."+name+":") || strings.Contains(text, "..."+name+"?:")
}
