package canonical

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseCatalog extracts the model -> URL table from the catalog
// markdown. Every link's text is a canonical identifier and its
// destination the reference page.
func parseCatalog(source []byte) (map[string]string, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	urls := make(map[string]string)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		name := string(linkText(link, source))
		if name == "" {
			return ast.WalkContinue, nil
		}
		if prev, dup := urls[name]; dup && prev != string(link.Destination) {
			return ast.WalkStop, fmt.Errorf("model %q listed twice with different URLs", name)
		}
		urls[name] = string(link.Destination)
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

// linkText concatenates the text segments under a link node.
func linkText(link *ast.Link, source []byte) []byte {
	var buf bytes.Buffer
	for c := link.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
		}
	}
	return buf.Bytes()
}
