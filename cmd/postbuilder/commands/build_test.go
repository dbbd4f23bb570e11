package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestBuildCmd_FlagsOnly(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "public")
	writeContent(t, input, "hello.md", "---\ntitle: Hello\ndate: 2020-01-01\ntags: a\n---\nhi\n")

	cmd := &BuildCmd{Input: input, Output: output}
	root := &CLI{Config: defaultConfigFile}

	require.NoError(t, cmd.Run(&Global{}, root))
	require.FileExists(t, filepath.Join(output, "posts", "hello.html"))
	require.FileExists(t, filepath.Join(output, "index.html"))
	require.FileExists(t, filepath.Join(output, "tags", "a", "index.html"))
}

func TestBuildCmd_MalformedDocumentYieldsError(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "public")
	writeContent(t, input, "bad.md", "---\ntitle: Broken\nno closing\n")
	writeContent(t, input, "good.md", "---\ntitle: Good\ndate: 2020-01-01\n---\nok\n")

	cmd := &BuildCmd{Input: input, Output: output}
	root := &CLI{Config: defaultConfigFile}

	err := cmd.Run(&Global{}, root)
	require.Error(t, err)
	// The valid document was still emitted before the non-zero exit.
	require.FileExists(t, filepath.Join(output, "posts", "good.html"))
}

func TestBuildCmd_EmptyInputSucceeds(t *testing.T) {
	cmd := &BuildCmd{Input: t.TempDir(), Output: filepath.Join(t.TempDir(), "public")}
	root := &CLI{Config: defaultConfigFile}

	require.NoError(t, cmd.Run(&Global{}, root))
}

func TestBuildCmd_ExplicitMissingConfigFails(t *testing.T) {
	cmd := &BuildCmd{Input: t.TempDir()}
	root := &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}

	require.Error(t, cmd.Run(&Global{}, root))
}

func TestInitCmd_CreatesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postbuilder.yaml")
	root := &CLI{Config: path}

	require.NoError(t, (&InitCmd{}).Run(&Global{}, root))
	require.FileExists(t, path)

	require.Error(t, (&InitCmd{}).Run(&Global{}, root))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{}, root))
}
