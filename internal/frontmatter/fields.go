package frontmatter

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Meta is the typed view of a post's front matter. Title and Date are
// required; everything else has a usable zero value.
type Meta struct {
	Title     string
	Date      time.Time
	Tags      []string
	Published bool
	Summary   string
	Slug      string
}

var (
	ErrMissingTitle = errors.New("front matter is missing a non-empty title")
	ErrMissingDate  = errors.New("front matter is missing a date")
	ErrBadDate      = errors.New("front matter date is not a recognized timestamp")
	ErrBadPublished = errors.New("front matter published flag is not a boolean")
)

// dateLayouts are the accepted textual date forms, tried in order.
// yaml.v3 already decodes canonical timestamps into time.Time; these cover
// the quoted-string spellings seen in real content.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ExtractMeta converts a parsed front-matter map into a Meta, enforcing the
// required fields. Unrecognized keys are ignored.
func ExtractMeta(fields map[string]any) (Meta, error) {
	meta := Meta{Published: true}

	title, ok := fields["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return Meta{}, ErrMissingTitle
	}
	meta.Title = strings.TrimSpace(title)

	date, err := parseDate(fields["date"])
	if err != nil {
		return Meta{}, err
	}
	meta.Date = date

	meta.Tags = parseTags(fields["tags"])

	if v, ok := fields["published"]; ok && v != nil {
		pub, err := parseBool(v)
		if err != nil {
			return Meta{}, err
		}
		meta.Published = pub
	}

	if s, ok := fields["summary"].(string); ok {
		meta.Summary = strings.TrimSpace(s)
	}
	if s, ok := fields["slug"].(string); ok {
		meta.Slug = strings.TrimSpace(s)
	}

	return meta, nil
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, ErrMissingDate
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, ErrMissingDate
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	default:
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadDate, v)
	}
}

// parseTags accepts a YAML list or a single string with space- or
// comma-separated tags. Duplicates are dropped, first occurrence wins.
func parseTags(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		sep := " "
		if strings.Contains(t, ",") {
			sep = ","
		}
		raw = strings.Split(t, sep)
	default:
		raw = []string{fmt.Sprint(t)}
	}

	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

func parseBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %v", ErrBadPublished, v)
}
