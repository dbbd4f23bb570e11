package site

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/postbuilder/internal/posts"
)

func post(rel, title string, date time.Time, published bool, tags ...string) *posts.Post {
	return &posts.Post{
		RelativePath: rel,
		Meta: frontmatter.Meta{
			Title:     title,
			Date:      date,
			Tags:      tags,
			Published: published,
		},
	}
}

func TestBuildIndexes_ChronologicalDescending(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	input := []*posts.Post{
		post("a.md", "A", day(1), true),
		post("b.md", "B", day(3), true),
		post("c.md", "C", day(2), true),
	}

	idx := BuildIndexes(input)
	require.Len(t, idx.Chronological, 3)
	require.Equal(t, "B", idx.Chronological[0].Meta.Title)
	require.Equal(t, "C", idx.Chronological[1].Meta.Title)
	require.Equal(t, "A", idx.Chronological[2].Meta.Title)
}

func TestBuildIndexes_EqualDatesKeepDiscoveryOrder(t *testing.T) {
	same := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []*posts.Post{
		post("first.md", "First", same, true),
		post("second.md", "Second", same, true),
		post("third.md", "Third", same, true),
	}

	idx := BuildIndexes(input)
	require.Equal(t, "First", idx.Chronological[0].Meta.Title)
	require.Equal(t, "Second", idx.Chronological[1].Meta.Title)
	require.Equal(t, "Third", idx.Chronological[2].Meta.Title)
}

func TestBuildIndexes_UnpublishedExcludedEverywhere(t *testing.T) {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	input := []*posts.Post{
		post("pub.md", "Pub", day, true, "a"),
		post("hidden.md", "Hidden", day, false, "a", "b"),
	}

	idx := BuildIndexes(input)
	require.Len(t, idx.Chronological, 1)
	require.Equal(t, "Pub", idx.Chronological[0].Meta.Title)
	require.Equal(t, []string{"a"}, idx.TagNames)
	require.Len(t, idx.Tags["a"], 1)
	require.Empty(t, idx.Tags["b"])
}

func TestBuildIndexes_TagsGroupedAndSorted(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	input := []*posts.Post{
		post("one.md", "One", day(1), true, "zeta", "alpha"),
		post("two.md", "Two", day(2), true, "alpha"),
	}

	idx := BuildIndexes(input)
	require.Equal(t, []string{"alpha", "zeta"}, idx.TagNames)
	require.Len(t, idx.Tags["alpha"], 2)
	// Tag listings share the chronological order.
	require.Equal(t, "Two", idx.Tags["alpha"][0].Meta.Title)
}

func TestBuildIndexes_Deterministic(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2020, 1, d, 0, 0, 0, 0, time.UTC) }
	input := []*posts.Post{
		post("a.md", "A", day(2), true, "x"),
		post("b.md", "B", day(2), true, "x", "y"),
		post("c.md", "C", day(1), true, "y"),
	}

	first := BuildIndexes(input)
	second := BuildIndexes(input)
	require.Equal(t, first.TagNames, second.TagNames)
	require.Equal(t, first.Chronological, second.Chronological)
	require.Equal(t, first.Tags, second.Tags)
}

func TestBuildIndexes_EmptyInput(t *testing.T) {
	idx := BuildIndexes(nil)
	require.Empty(t, idx.Chronological)
	require.Empty(t, idx.TagNames)
}
