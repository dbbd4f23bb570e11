package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Delimiter is the line that opens and closes a front-matter block.
const Delimiter = "---"

// Style captures the newline shape of a source file so that rewrites and
// round-trips stay byte-stable. It does not attempt to preserve YAML
// formatting inside the block.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingClosingDelimiter indicates a document opened a front-matter block
// but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter opening delimiter found but closing delimiter is missing")

// Split separates a `---` delimited front-matter block from the body.
//
// had is false when the document does not start with a delimiter line; body
// is then the full input. An opening delimiter without a closing one is an
// error (ErrMissingClosingDelimiter).
func Split(content []byte) (meta []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	open := []byte(Delimiter + style.Newline)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}

	closing := []byte(style.Newline + Delimiter + style.Newline)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// A final `---` with no trailing newline still closes the block.
		tail := []byte(style.Newline + Delimiter)
		if bytes.HasSuffix(rest, tail) {
			meta = rest[:len(rest)-len(tail)+len(style.Newline)]
			return meta, []byte{}, true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	meta = rest[:idx+len(style.Newline)]
	body = rest[idx+len(closing):]
	return meta, body, true, style, nil
}

// Join reassembles a document from a raw front-matter block and body.
// When had is false the body is returned unchanged.
func Join(meta []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte(Delimiter + nl)
	out := make([]byte, 0, 2*len(delim)+len(meta)+len(body))
	out = append(out, delim...)
	out = append(out, meta...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML parses a raw front-matter block (delimiters already stripped)
// into a key/value map. An empty block yields an empty map.
func ParseYAML(meta []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(meta)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		if i > 0 && content[i-1] == '\r' {
			newline = "\r\n"
		}
		break
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
