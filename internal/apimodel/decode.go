package apimodel

import (
	"encoding/json"
	"fmt"
	"io"

	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

type rawParameter struct {
	ParameterName           string      `json:"parameterName"`
	ParameterTypeTokenRange *tokenRange `json:"parameterTypeTokenRange"`
	IsOptional              bool        `json:"isOptional"`
	IsRest                  bool        `json:"isRest"`
}

type rawTypeParameter struct {
	TypeParameterName     string      `json:"typeParameterName"`
	ConstraintTokenRange  *tokenRange `json:"constraintTokenRange"`
	DefaultTypeTokenRange *tokenRange `json:"defaultTypeTokenRange"`
	IsOptional            bool        `json:"isOptional"`
}

type rawItem struct {
	Kind               Kind    `json:"kind"`
	Name               string  `json:"name"`
	CanonicalReference string  `json:"canonicalReference"`
	DocComment         string  `json:"docComment"`
	ReleaseTag         string  `json:"releaseTag"`
	FileURLPath        string  `json:"fileUrlPath"`
	ExcerptTokens      []Token `json:"excerptTokens"`

	TypeTokenRange         *tokenRange  `json:"typeTokenRange"`
	PropertyTypeTokenRange *tokenRange  `json:"propertyTypeTokenRange"`
	VariableTypeTokenRange *tokenRange  `json:"variableTypeTokenRange"`
	ReturnTypeTokenRange   *tokenRange  `json:"returnTypeTokenRange"`
	InitializerTokenRange  *tokenRange  `json:"initializerTokenRange"`
	ExtendsTokenRange      *tokenRange  `json:"extendsTokenRange"`
	ExtendsTokenRanges     []tokenRange `json:"extendsTokenRanges"`
	ImplementsTokenRanges  []tokenRange `json:"implementsTokenRanges"`

	Parameters     []rawParameter     `json:"parameters"`
	TypeParameters []rawTypeParameter `json:"typeParameters"`
	Members        []rawItem          `json:"members"`

	OverloadIndex int  `json:"overloadIndex"`
	IsStatic      bool `json:"isStatic"`
	IsOptional    bool `json:"isOptional"`
	IsReadonly    bool `json:"isReadonly"`
	IsProtected   bool `json:"isProtected"`
	IsAbstract    bool `json:"isAbstract"`
}

// Decode reads an .api.json document and returns its root Package item with
// excerpts resolved from token ranges and parent links set.
func Decode(r io.Reader) (*Item, error) {
	var raw rawItem
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, derrors.ModelError("invalid API model document").WithCause(err).Build()
	}
	if raw.Kind != KindPackage {
		return nil, derrors.ModelError("API model root must be a Package").
			WithContext("kind", string(raw.Kind)).
			Build()
	}
	root, err := build(&raw, nil)
	if err != nil {
		return nil, derrors.ModelError("invalid API model document").
			WithCause(err).
			WithContext("package", raw.Name).
			Build()
	}
	return root, nil
}

func build(raw *rawItem, parent *Item) (*Item, error) {
	it := &Item{
		Kind:               raw.Kind,
		Name:               raw.Name,
		CanonicalReference: raw.CanonicalReference,
		DocComment:         raw.DocComment,
		ReleaseTag:         raw.ReleaseTag,
		FileURLPath:        raw.FileURLPath,
		Excerpt:            Excerpt{Tokens: raw.ExcerptTokens},
		OverloadIndex:      raw.OverloadIndex,
		IsStatic:           raw.IsStatic,
		IsOptional:         raw.IsOptional,
		IsReadonly:         raw.IsReadonly,
		IsProtected:        raw.IsProtected,
		IsAbstract:         raw.IsAbstract,
		Parent:             parent,
	}

	tokens := raw.ExcerptTokens
	var err error
	slice := func(r *tokenRange, what string) Excerpt {
		if r == nil || err != nil {
			return Excerpt{}
		}
		var ex Excerpt
		ex, err = excerptFor(tokens, r)
		if err != nil {
			err = fmt.Errorf("%s of %q: %w", what, raw.CanonicalReference, err)
		}
		return ex
	}

	switch {
	case raw.TypeTokenRange != nil:
		it.TypeExcerpt = slice(raw.TypeTokenRange, "type")
	case raw.PropertyTypeTokenRange != nil:
		it.TypeExcerpt = slice(raw.PropertyTypeTokenRange, "property type")
	case raw.VariableTypeTokenRange != nil:
		it.TypeExcerpt = slice(raw.VariableTypeTokenRange, "variable type")
	}
	it.ReturnTypeExcerpt = slice(raw.ReturnTypeTokenRange, "return type")
	it.InitializerExcerpt = slice(raw.InitializerTokenRange, "initializer")
	if raw.ExtendsTokenRange != nil {
		it.ExtendsExcerpts = append(it.ExtendsExcerpts, slice(raw.ExtendsTokenRange, "extends"))
	}
	for i := range raw.ExtendsTokenRanges {
		it.ExtendsExcerpts = append(it.ExtendsExcerpts, slice(&raw.ExtendsTokenRanges[i], "extends"))
	}
	for i := range raw.ImplementsTokenRanges {
		it.ImplementsExcerpts = append(it.ImplementsExcerpts, slice(&raw.ImplementsTokenRanges[i], "implements"))
	}
	for _, p := range raw.Parameters {
		it.Parameters = append(it.Parameters, Parameter{
			Name:        p.ParameterName,
			TypeExcerpt: slice(p.ParameterTypeTokenRange, "parameter "+p.ParameterName),
			IsOptional:  p.IsOptional,
			IsRest:      p.IsRest || isRestParameter(tokens, p),
		})
	}
	for _, tp := range raw.TypeParameters {
		it.TypeParameters = append(it.TypeParameters, TypeParameter{
			Name:              tp.TypeParameterName,
			ConstraintExcerpt: slice(tp.ConstraintTokenRange, "constraint of "+tp.TypeParameterName),
			DefaultExcerpt:    slice(tp.DefaultTypeTokenRange, "default of "+tp.TypeParameterName),
			IsOptional:        tp.IsOptional,
		})
	}
	if err != nil {
		return nil, err
	}

	for i := range raw.Members {
		child, err := build(&raw.Members[i], it)
		if err != nil {
			return nil, err
		}
		it.Members = append(it.Members, child)
	}
	return it, nil
}

func excerptFor(tokens []Token, r *tokenRange) (Excerpt, error) {
	if !r.valid(len(tokens)) {
		return Excerpt{}, fmt.Errorf("token range [%d,%d) out of bounds for %d tokens", r.StartIndex, r.EndIndex, len(tokens))
	}
	return Excerpt{Tokens: tokens[r.StartIndex:r.EndIndex]}, nil
}

// isRestParameter detects "...name" in the declaration text for documents
// written before isRest was serialized.
func isRestParameter(tokens []Token, p rawParameter) bool {
	r := p.ParameterTypeTokenRange
	if r == nil || r.StartIndex <= 0 || r.StartIndex > len(tokens) {
		return false
	}
	prev := tokens[r.StartIndex-1].Text
	return containsRest(prev, p.ParameterName)
}
