package blog

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders GitHub-flavoured Markdown.  Raw HTML in posts is passed
// through untouched (html.WithUnsafe); posts are written by admins only.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Render converts Markdown to HTML.
func Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewView renders p.
func NewView(p Post) (View, error) {
	h, err := Render(p.Content)
	if err != nil {
		return View{}, err
	}
	return View{Post: p, ContentHTML: h}, nil
}
