// Package render converts post bodies from Markdown to HTML.
//
// Embedded code blocks and math notation are display-only content: code
// fences come out escaped but otherwise untouched, and math expressions are
// left as literal text for client-side typesetting.
package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// RenderError reports a structurally malformed body. Rendering of that
// document is skipped and replaced with a placeholder; the run continues.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer converts Markdown bodies to HTML fragments.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer. Raw HTML in post bodies is passed through; posts
// are trusted local content, not user input.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

// Render converts one body to an HTML fragment. The only structural failure
// is an unterminated code fence; everything else renders best-effort.
func (r *Renderer) Render(path string, body []byte) ([]byte, error) {
	if err := checkFences(body); err != nil {
		return nil, &RenderError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, &RenderError{Path: path, Err: err}
	}
	return buf.Bytes(), nil
}

// Placeholder returns the fragment emitted in place of a page whose body
// failed to render.
func Placeholder(title string) []byte {
	return fmt.Appendf(nil, "<p><em>%s could not be rendered.</em></p>\n", html.EscapeString(title))
}
