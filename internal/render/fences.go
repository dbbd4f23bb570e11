package render

import (
	"bufio"
	"bytes"
	"errors"
)

// ErrUnterminatedFence indicates a code fence that was opened but never
// closed before end of input.
var ErrUnterminatedFence = errors.New("unterminated code fence")

// checkFences scans the body for fenced code blocks and verifies every
// opening fence has a matching close. CommonMark silently closes a dangling
// fence at EOF; for publishing that almost always means a truncated post, so
// it is treated as a structural error instead.
func checkFences(body []byte) error {
	var (
		open     bool
		fenceCh  byte
		fenceLen int
	)

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()

		ch, length, ok := fenceMarker(line)
		if !ok {
			continue
		}

		if !open {
			open = true
			fenceCh = ch
			fenceLen = length
			continue
		}

		// A closing fence uses the same character, at least as long, with
		// nothing but the marker on the line. Anything else is content.
		if ch == fenceCh && length >= fenceLen && isBareMarker(line, ch) {
			open = false
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if open {
		return ErrUnterminatedFence
	}
	return nil
}

// fenceMarker reports whether a line begins a fence marker (up to three
// leading spaces, then three or more backticks or tildes).
func fenceMarker(line []byte) (ch byte, length int, ok bool) {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i >= len(line) || (line[i] != '`' && line[i] != '~') {
		return 0, 0, false
	}
	ch = line[i]
	for i < len(line) && line[i] == ch {
		i++
		length++
	}
	if length < 3 {
		return 0, 0, false
	}
	return ch, length, true
}

// isBareMarker reports whether the line contains only the fence marker and
// trailing whitespace (an info string is only legal on opening fences).
func isBareMarker(line []byte, ch byte) bool {
	rest := bytes.TrimLeft(line, " ")
	rest = bytes.TrimLeft(rest, string(ch))
	return len(bytes.TrimSpace(rest)) == 0
}
