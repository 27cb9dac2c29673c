package properties

import (
	"bytes"
	"strings"
)

// defaultLineEnding is used for appended lines when the document has none to copy.
const defaultLineEnding = "\n"

// line is one physical line of a properties file.
type line struct {
	// text is the line content without its terminator.
	text string
	// ending is "\n", "\r\n" or "" for an unterminated last line.
	ending string
}

// key returns the property key of the line, or "" for comments, blanks and malformed lines.
func (l line) key() string {
	trimmed := strings.TrimSpace(l.text)
	if trimmed == "" || trimmed[0] == '#' || trimmed[0] == '!' {
		return ""
	}

	k, _, found := strings.Cut(trimmed, "=")
	if !found {
		return ""
	}

	return strings.TrimSpace(k)
}

// value returns the raw value after the first "=".
func (l line) value() string {
	_, v, _ := strings.Cut(l.text, "=")

	return v
}

// Document is an order-preserving view of a key=value file.
type Document struct {
	lines []line
}

// Parse splits data into lines, remembering each line's terminator.
func Parse(data []byte) *Document {
	doc := new(Document)

	for len(data) > 0 {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			doc.lines = append(doc.lines, line{text: string(data)})
			break
		}

		text, ending := data[:idx], "\n"
		if len(text) > 0 && text[len(text)-1] == '\r' {
			text, ending = text[:len(text)-1], "\r\n"
		}

		doc.lines = append(doc.lines, line{text: string(text), ending: ending})
		data = data[idx+1:]
	}

	return doc
}

// Get returns the value of the first line with the given key.
func (d *Document) Get(key string) (string, bool) {
	if i := d.index(key); i >= 0 {
		return d.lines[i].value(), true
	}

	return "", false
}

// Set replaces the first line with the given key by key=value, keeping its
// position and line ending. A missing key is appended at the end.
// It reports whether the document changed.
func (d *Document) Set(key, value string) bool {
	text := key + "=" + value

	if i := d.index(key); i >= 0 {
		if d.lines[i].text == text {
			return false
		}

		d.lines[i].text = text

		return true
	}

	ending := d.lineEnding()
	if n := len(d.lines); n > 0 && d.lines[n-1].ending == "" {
		d.lines[n-1].ending = ending
	}

	d.lines = append(d.lines, line{text: text, ending: ending})

	return true
}

// Keys returns the keys in file order, duplicates included.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.lines))

	for _, l := range d.lines {
		if k := l.key(); k != "" {
			keys = append(keys, k)
		}
	}

	return keys
}

// Bytes renders the document back to file contents.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer

	for _, l := range d.lines {
		buf.WriteString(l.text)
		buf.WriteString(l.ending)
	}

	return buf.Bytes()
}

func (d *Document) index(key string) int {
	for i, l := range d.lines {
		if l.key() == key {
			return i
		}
	}

	return -1
}

// lineEnding picks the terminator of the first terminated line.
func (d *Document) lineEnding() string {
	for _, l := range d.lines {
		if l.ending != "" {
			return l.ending
		}
	}

	return defaultLineEnding
}
