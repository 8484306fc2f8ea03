package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is a table-of-contents entry.
type Heading struct {
	Level int
	Text  string
	ID    string
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// annotateHeadings assigns slug ids to every heading of an HTML fragment,
// including headings that arrived as raw HTML, and returns the table of
// contents. Existing ids are preserved and reserved.
func annotateHeadings(fragment []byte) ([]byte, []Heading, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(fragment), body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse rendered html: %w", err)
	}

	var found []*html.Node
	for _, n := range nodes {
		collectHeadings(n, &found)
	}

	slugger := NewSlugger()
	for _, h := range found {
		if id := attr(h, "id"); id != "" {
			slugger.Reserve(id)
		}
	}

	headings := make([]Heading, 0, len(found))
	for _, h := range found {
		text := strings.TrimSpace(textContent(h))
		id := attr(h, "id")
		if id == "" {
			id = slugger.Slug(text)
			if id != "" {
				h.Attr = append(h.Attr, html.Attribute{Key: "id", Val: id})
			}
		}
		headings = append(headings, Heading{Level: headingLevels[h.DataAtom], Text: text, ID: id})
	}

	var buf bytes.Buffer
	buf.Grow(len(fragment) + 32*len(found))
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return nil, nil, fmt.Errorf("render annotated html: %w", err)
		}
	}
	return buf.Bytes(), headings, nil
}

func collectHeadings(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode {
		if _, ok := headingLevels[n.DataAtom]; ok {
			*out = append(*out, n)
			return
		}
		if n.DataAtom == atom.Pre {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectHeadings(c, out)
	}
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
