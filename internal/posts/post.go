package posts

import (
	"fmt"

	"git.home.luguber.info/inful/postbuilder/internal/frontmatter"
)

// Post is a single loaded document. It is constructed once by the loader and
// immutable for the rest of the run.
type Post struct {
	Path         string // absolute path to the source file
	RelativePath string // slash-separated path relative to the content dir
	Meta         frontmatter.Meta
	Body         []byte
	Order        int // discovery order, used as the index tie-break
}

// Published reports whether the post participates in indices and listings.
// Unpublished posts are still rendered standalone.
func (p *Post) Published() bool { return p.Meta.Published }

// MalformedFrontMatterError reports a document whose metadata block could not
// be parsed or was missing a required field. The post is skipped; the run
// continues.
type MalformedFrontMatterError struct {
	Path string
	Err  error
}

func (e *MalformedFrontMatterError) Error() string {
	return fmt.Sprintf("malformed front matter in %s: %v", e.Path, e.Err)
}

func (e *MalformedFrontMatterError) Unwrap() error { return e.Err }
