package site

import (
	"encoding/xml"
	"strings"
	"time"
)

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// feedLimit caps the number of entries in the Atom feed.
const feedLimit = 20

type feedEntry struct {
	Title   string
	Link    string
	ID      string
	Updated string
	Summary string
}

type feedData struct {
	Title   string
	Link    string
	ID      string
	Updated string
	Entries []feedEntry
}

// emitFeed writes atom.xml from the chronological index. The feed timestamp
// is the newest post date, not the build time, so regeneration stays
// byte-identical for unchanged input.
func (e *Emitter) emitFeed(idx *Indexes) error {
	base := strings.TrimSuffix(e.cfg.Site.BaseURL, "/")

	updated := time.Time{}
	if len(idx.Chronological) > 0 {
		updated = idx.Chronological[0].Meta.Date
	}

	data := feedData{
		Title:   e.cfg.Site.Title,
		Link:    base + "/",
		ID:      base + "/",
		Updated: updated.UTC().Format(time.RFC3339),
	}

	for i, p := range idx.Chronological {
		if i >= feedLimit {
			break
		}
		link := base + "/" + PagePath(p)
		data.Entries = append(data.Entries, feedEntry{
			Title:   p.Meta.Title,
			Link:    link,
			ID:      link,
			Updated: p.Meta.Date.UTC().Format(time.RFC3339),
			Summary: p.Meta.Summary,
		})
	}

	var b strings.Builder
	if err := e.feed.Execute(&b, data); err != nil {
		return &EmitError{Path: "atom.xml", Err: err}
	}
	return e.write("atom.xml", []byte(b.String()))
}
