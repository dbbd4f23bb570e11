package site

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postbuilder/internal/config"
	"git.home.luguber.info/inful/postbuilder/internal/posts"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Site.Title = "Test Blog"
	cfg.Site.BaseURL = "https://example.com"
	cfg.Output.Dir = filepath.Join(t.TempDir(), "public")
	return cfg
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestEmit_WritesPagesAndIndexes(t *testing.T) {
	cfg := testConfig(t)
	e, err := NewEmitter(cfg)
	require.NoError(t, err)

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	p := post("test.md", "Test", day, true, "a", "b")
	idx := BuildIndexes([]*posts.Post{p})

	require.NoError(t, e.Emit([]Page{{Post: p, HTML: []byte("<p>hello</p>\n")}}, idx))

	page := readOutput(t, cfg, "posts/test.html")
	require.Contains(t, page, "<p>hello</p>")
	require.Contains(t, page, "Test")

	index := readOutput(t, cfg, "index.html")
	require.Contains(t, index, "posts/test.html")

	for _, tag := range []string{"a", "b"} {
		listing := readOutput(t, cfg, "tags/"+tag+"/index.html")
		require.Contains(t, listing, "../../posts/test.html")
	}

	overview := readOutput(t, cfg, "tags/index.html")
	require.Contains(t, overview, `a/`)

	feed := readOutput(t, cfg, "atom.xml")
	require.Contains(t, feed, "https://example.com/posts/test.html")
}

func TestEmit_EmptyInput_EmptyChronologicalNoTagPages(t *testing.T) {
	cfg := testConfig(t)
	e, err := NewEmitter(cfg)
	require.NoError(t, err)

	require.NoError(t, e.Emit(nil, BuildIndexes(nil)))

	require.FileExists(t, filepath.Join(cfg.Output.Dir, "index.html"))
	// Overview page exists for navigation, but there are no tag indices.
	require.FileExists(t, filepath.Join(cfg.Output.Dir, "tags", "index.html"))
	entries, err := os.ReadDir(filepath.Join(cfg.Output.Dir, "tags"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestEmit_Idempotent_ByteIdenticalOutput(t *testing.T) {
	cfg := testConfig(t)
	e, err := NewEmitter(cfg)
	require.NoError(t, err)

	day := time.Date(2021, 7, 4, 0, 0, 0, 0, time.UTC)
	ps := []*posts.Post{
		post("a.md", "Alpha", day, true, "go"),
		post("b.md", "Beta", day.Add(24*time.Hour), true, "go", "notes"),
	}
	pages := []Page{
		{Post: ps[0], HTML: []byte("<p>a</p>")},
		{Post: ps[1], HTML: []byte("<p>b</p>")},
	}

	snapshot := func() map[string]string {
		out := map[string]string{}
		err := filepath.Walk(cfg.Output.Dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(cfg.Output.Dir, path)
			out[rel] = string(data)
			return nil
		})
		require.NoError(t, err)
		return out
	}

	require.NoError(t, e.Emit(pages, BuildIndexes(ps)))
	first := snapshot()
	require.NoError(t, e.Emit(pages, BuildIndexes(ps)))
	second := snapshot()

	require.Equal(t, first, second)
}

func TestEmit_UnpublishedPostRenderedButUnlisted(t *testing.T) {
	cfg := testConfig(t)
	e, err := NewEmitter(cfg)
	require.NoError(t, err)

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	hidden := post("hidden.md", "Hidden", day, false, "secret")
	pages := []Page{{Post: hidden, HTML: []byte("<p>draft</p>")}}

	require.NoError(t, e.Emit(pages, BuildIndexes([]*posts.Post{hidden})))

	require.FileExists(t, filepath.Join(cfg.Output.Dir, "posts/hidden.html"))
	index := readOutput(t, cfg, "index.html")
	require.NotContains(t, index, "hidden.html")
	require.NoDirExists(t, filepath.Join(cfg.Output.Dir, "tags", "secret"))
}

func TestEmit_WriteFailure_IsEmitError(t *testing.T) {
	cfg := testConfig(t)
	e, err := NewEmitter(cfg)
	require.NoError(t, err)

	// Output dir path occupied by a regular file makes MkdirAll fail.
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Output.Dir), 0o755))
	require.NoError(t, os.WriteFile(cfg.Output.Dir, []byte("in the way"), 0o644))
	cfg.Output.Clean = false

	err = e.Emit(nil, BuildIndexes(nil))
	require.Error(t, err)

	var ee *EmitError
	require.ErrorAs(t, err, &ee)
}

func TestPagePath_SlugOverride(t *testing.T) {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	p := post("dir/original.md", "T", day, true)
	require.Equal(t, "posts/dir/original.html", PagePath(p))

	p.Meta.Slug = "renamed"
	require.Equal(t, "posts/dir/renamed.html", PagePath(p))
}
