package site

import (
	"sort"

	"git.home.luguber.info/inful/postbuilder/internal/posts"
)

// Indexes holds the derived listings for one run. Rebuilt fresh every
// invocation, never persisted.
type Indexes struct {
	// Chronological lists published posts by descending date; equal dates
	// keep their discovery order.
	Chronological []*posts.Post

	// Tags maps tag name to published posts in chronological-index order.
	Tags map[string][]*posts.Post

	// TagNames is the sorted key set of Tags, for deterministic iteration.
	TagNames []string
}

// BuildIndexes derives the chronological and tag indexes from the loaded
// posts. Unpublished posts appear in no index. Identical input always yields
// identical output: the input slice is in discovery order and the sort is
// stable.
func BuildIndexes(all []*posts.Post) *Indexes {
	chrono := make([]*posts.Post, 0, len(all))
	for _, p := range all {
		if p.Published() {
			chrono = append(chrono, p)
		}
	}
	sort.SliceStable(chrono, func(i, j int) bool {
		return chrono[i].Meta.Date.After(chrono[j].Meta.Date)
	})

	tags := make(map[string][]*posts.Post)
	for _, p := range chrono {
		for _, tag := range p.Meta.Tags {
			tags[tag] = append(tags[tag], p)
		}
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Indexes{Chronological: chrono, Tags: tags, TagNames: names}
}
