package linkcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestCheck_CleanSite(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "index.html", `<a href="posts/a.html">a</a> <a href="tags/">tags</a>`)
	writeHTML(t, dir, "posts/a.html", `<a href="../index.html">home</a>`)
	writeHTML(t, dir, "tags/index.html", `<a href="#top">top</a>`)

	broken, err := Check(dir)
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestCheck_ReportsBrokenRelativeLink(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "index.html", `<a href="posts/missing.html">gone</a>`)

	broken, err := Check(dir)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, "index.html", broken[0].Page)
	require.Equal(t, "posts/missing.html", broken[0].Href)
}

func TestCheck_ExternalAndFragmentLinksPass(t *testing.T) {
	dir := t.TempDir()
	writeHTML(t, dir, "index.html",
		`<a href="https://example.com/x">ext</a> <a href="#s">frag</a> <a href="mailto:a@b">mail</a>`)

	broken, err := Check(dir)
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestCheck_DirectoryLinkNeedsIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tags", "empty"), 0o755))
	writeHTML(t, dir, "index.html", `<a href="tags/empty/">empty</a>`)

	broken, err := Check(dir)
	require.NoError(t, err)
	require.Len(t, broken, 1)
}
