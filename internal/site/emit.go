package site

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	texttemplate "text/template"

	"git.home.luguber.info/inful/postbuilder/internal/config"
	"git.home.luguber.info/inful/postbuilder/internal/logfields"
	"git.home.luguber.info/inful/postbuilder/internal/posts"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// EmitError reports a filesystem write failure. Emission errors are
// environmental and fatal: the run aborts, partial output is left in place
// because regeneration is idempotent.
type EmitError struct {
	Path string
	Err  error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit %s: %v", e.Path, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

// Page pairs a post with its rendered HTML fragment (or placeholder).
type Page struct {
	Post *posts.Post
	HTML []byte
}

// Emitter writes rendered pages and index listings to the output directory.
type Emitter struct {
	cfg  *config.Config
	tmpl *template.Template
	feed *texttemplate.Template
}

// NewEmitter parses the embedded layouts.
func NewEmitter(cfg *config.Config) (*Emitter, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}
	feed, err := texttemplate.New("atom.xml.tmpl").
		Funcs(texttemplate.FuncMap{"xml": xmlEscape}).
		ParseFS(templatesFS, "templates/atom.xml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse feed template: %w", err)
	}
	return &Emitter{cfg: cfg, tmpl: tmpl, feed: feed}, nil
}

// PagePath returns the output-relative path of a post's rendered page. An
// explicit front-matter slug replaces the file name.
func PagePath(p *posts.Post) string {
	rel := p.RelativePath
	dir := path.Dir(rel)
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if p.Meta.Slug != "" {
		name = p.Meta.Slug
	}
	if dir == "." {
		return path.Join("posts", name+".html")
	}
	return path.Join("posts", dir, name+".html")
}

// TagPath returns the output-relative path of a tag's index page.
func TagPath(tag string) string {
	return path.Join("tags", Slugify(tag), "index.html")
}

// Emit writes the whole site. Any write failure aborts immediately.
func (e *Emitter) Emit(pages []Page, idx *Indexes) error {
	outDir := e.cfg.Output.Dir

	if e.cfg.Output.Clean {
		if err := os.RemoveAll(outDir); err != nil {
			return &EmitError{Path: outDir, Err: err}
		}
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return &EmitError{Path: outDir, Err: err}
	}

	for _, page := range pages {
		if err := e.emitPage(page); err != nil {
			return err
		}
	}

	if err := e.emitChronological(idx); err != nil {
		return err
	}
	for _, tag := range idx.TagNames {
		if err := e.emitTag(tag, idx.Tags[tag]); err != nil {
			return err
		}
	}
	// The overview is written even when no tags exist so the site-wide nav
	// never points at a missing page; per-tag listings stay conditional.
	if err := e.emitTagOverview(idx); err != nil {
		return err
	}
	if err := e.emitFeed(idx); err != nil {
		return err
	}

	slog.Info("Site emitted",
		logfields.Path(outDir),
		slog.Int("pages", len(pages)),
		slog.Int("tags", len(idx.TagNames)))
	return nil
}

type tagRef struct {
	Name string
	Href string
}

type postRef struct {
	Title   string
	Href    string
	Date    string
	Summary string
}

type pageData struct {
	Site    config.SiteConfig
	Title   string
	Date    string
	Tags    []tagRef
	Content template.HTML
	Root    string
}

type listData struct {
	Site  config.SiteConfig
	Title string
	Posts []postRef
	Tags  []tagRef
	Root  string
}

// rootPrefix returns the ../ chain that leads from a page back to the site
// root, so emitted sites work from any directory without a base URL.
func rootPrefix(rel string) string {
	depth := strings.Count(rel, "/")
	return strings.Repeat("../", depth)
}

func (e *Emitter) emitPage(page Page) error {
	rel := PagePath(page.Post)
	root := rootPrefix(rel)

	tags := make([]tagRef, 0, len(page.Post.Meta.Tags))
	for _, tag := range page.Post.Meta.Tags {
		tags = append(tags, tagRef{Name: tag, Href: root + path.Dir(TagPath(tag)) + "/"})
	}

	data := pageData{
		Site:    e.cfg.Site,
		Title:   page.Post.Meta.Title,
		Date:    page.Post.Meta.Date.Format("2006-01-02"),
		Tags:    tags,
		Content: template.HTML(page.HTML),
		Root:    root,
	}
	return e.render(rel, "page.html.tmpl", data)
}

func (e *Emitter) emitChronological(idx *Indexes) error {
	data := listData{
		Site:  e.cfg.Site,
		Title: e.cfg.Site.Title,
		Posts: postRefs(idx.Chronological, ""),
		Root:  "",
	}
	return e.render("index.html", "list.html.tmpl", data)
}

func (e *Emitter) emitTag(tag string, tagged []*posts.Post) error {
	rel := TagPath(tag)
	root := rootPrefix(rel)
	data := listData{
		Site:  e.cfg.Site,
		Title: DisplayTitle(tag),
		Posts: postRefs(tagged, root),
		Root:  root,
	}
	return e.render(rel, "list.html.tmpl", data)
}

func (e *Emitter) emitTagOverview(idx *Indexes) error {
	rel := "tags/index.html"
	root := rootPrefix(rel)
	tags := make([]tagRef, 0, len(idx.TagNames))
	for _, tag := range idx.TagNames {
		tags = append(tags, tagRef{Name: tag, Href: root + path.Dir(TagPath(tag)) + "/"})
	}
	data := listData{
		Site:  e.cfg.Site,
		Title: "Tags",
		Tags:  tags,
		Root:  root,
	}
	return e.render(rel, "tags.html.tmpl", data)
}

func postRefs(list []*posts.Post, root string) []postRef {
	refs := make([]postRef, 0, len(list))
	for _, p := range list {
		refs = append(refs, postRef{
			Title:   p.Meta.Title,
			Href:    root + PagePath(p),
			Date:    p.Meta.Date.Format("2006-01-02"),
			Summary: p.Meta.Summary,
		})
	}
	return refs
}

func (e *Emitter) render(rel, name string, data any) error {
	var b strings.Builder
	if err := e.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return fmt.Errorf("execute %s for %s: %w", name, rel, err)
	}
	return e.write(rel, []byte(b.String()))
}

func (e *Emitter) write(rel string, content []byte) error {
	abs := filepath.Join(e.cfg.Output.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return &EmitError{Path: rel, Err: err}
	}
	// #nosec G306 -- generated pages are public content
	if err := os.WriteFile(abs, content, 0o644); err != nil {
		return &EmitError{Path: rel, Err: err}
	}
	slog.Debug("Wrote output file", logfields.Path(rel))
	return nil
}
