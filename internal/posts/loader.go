package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/postbuilder/internal/config"
	"git.home.luguber.info/inful/postbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/postbuilder/internal/logfields"
)

// Loader discovers and loads posts from a content directory.
type Loader struct {
	content config.ContentConfig
}

// NewLoader creates a loader for the given content configuration.
func NewLoader(content config.ContentConfig) *Loader {
	return &Loader{content: content}
}

// Result holds the outcome of one load pass. Posts are in discovery order and
// contain only well-formed documents; Failures carries the per-file errors
// that were isolated so the run could continue.
type Result struct {
	Posts    []*Post
	Failures []*MalformedFrontMatterError
	Skipped  int // files without a front-matter block
}

// ByPath returns the loaded post with the given content-relative path.
func (r *Result) ByPath(rel string) *Post {
	for _, p := range r.Posts {
		if p.RelativePath == rel {
			return p
		}
	}
	return nil
}

// Discover walks the content directory and returns the content-relative paths
// matching the include patterns minus the exclude patterns, sorted so that
// discovery order is deterministic across runs.
func (l *Loader) Discover() ([]string, error) {
	root := l.content.Dir
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}

	var matched []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if l.matches(rel) {
			matched = append(matched, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content directory %s: %w", root, err)
	}

	sort.Strings(matched)
	return matched, nil
}

func (l *Loader) matches(rel string) bool {
	included := false
	for _, pattern := range l.content.Include {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range l.content.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return false
		}
	}
	return true
}

// Load discovers and parses all posts. Each file is independent, so parsing
// runs concurrently; results are merged back into discovery order afterwards
// and no state is shared between loads.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	paths, err := l.Discover()
	if err != nil {
		return nil, err
	}

	type slot struct {
		post *Post
		fail *MalformedFrontMatterError
		skip bool
	}
	slots := make([]slot, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, rel := range paths {
		i, rel := i, rel
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			post, err := l.loadFile(rel)
			switch {
			case err == nil && post == nil:
				slots[i] = slot{skip: true}
			case err == nil:
				slots[i] = slot{post: post}
			default:
				var mfe *MalformedFrontMatterError
				if !errors.As(err, &mfe) {
					return err
				}
				slots[i] = slot{fail: mfe}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	order := 0
	for _, s := range slots {
		switch {
		case s.skip:
			result.Skipped++
		case s.fail != nil:
			slog.Warn("Skipping document with malformed front matter",
				logfields.File(s.fail.Path), logfields.Error(s.fail.Err))
			result.Failures = append(result.Failures, s.fail)
		case s.post != nil:
			s.post.Order = order
			order++
			result.Posts = append(result.Posts, s.post)
		}
	}

	slog.Info("Posts loaded",
		logfields.Count(len(result.Posts)),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", len(result.Failures)))
	return result, nil
}

// loadFile parses a single file. A (nil, nil) return means the file carries
// no front-matter block and is not a post.
func (l *Loader) loadFile(rel string) (*Post, error) {
	abs := filepath.Join(l.content.Dir, filepath.FromSlash(rel))
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}

	metaRaw, body, had, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, &MalformedFrontMatterError{Path: rel, Err: err}
	}
	if !had {
		slog.Debug("File has no front matter, skipping", logfields.File(rel))
		return nil, nil
	}

	fields, err := frontmatter.ParseYAML(metaRaw)
	if err != nil {
		return nil, &MalformedFrontMatterError{Path: rel, Err: err}
	}
	meta, err := frontmatter.ExtractMeta(fields)
	if err != nil {
		return nil, &MalformedFrontMatterError{Path: rel, Err: err}
	}

	return &Post{
		Path:         abs,
		RelativePath: rel,
		Meta:         meta,
		Body:         body,
	}, nil
}
