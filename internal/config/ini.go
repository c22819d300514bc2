package config

import (
	"bytes"
	"fmt"
	"strings"
)

// Parse reads INI text into a Document.
//
// Blank lines are skipped, lines starting with ';' or '#' are comments,
// "[name]" opens a section and "key=value" adds a pair to the current
// section. Keys and values are trimmed; a value may itself contain '='.
// A repeated section header continues the earlier section.
func Parse(data []byte) (*Document, error) {
	doc := NewDocument()

	var (
		current *Section
		line    []byte
		lineNo  int
	)
	for len(data) > 0 {
		line, data, _ = bytes.Cut(data, []byte{'\n'})
		lineNo++
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		// comment
		if line[0] == ';' || line[0] == '#' {
			continue
		}

		// section
		if line[0] == '[' {
			if line[len(line)-1] != ']' {
				return nil, fmt.Errorf("line %d: unterminated section header", lineNo)
			}
			name := bytes.TrimSpace(line[1 : len(line)-1])
			if len(name) == 0 {
				return nil, fmt.Errorf("line %d: empty section name", lineNo)
			}
			current = doc.section(string(name))
			continue
		}

		// kv pair
		key, value, ok := bytes.Cut(line, []byte{'='})
		if !ok {
			return nil, fmt.Errorf("line %d: expected key=value", lineNo)
		}
		key = bytes.TrimSpace(key)
		if len(key) == 0 {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: key %q outside of a section", lineNo, key)
		}
		current.Set(string(key), string(bytes.TrimSpace(value)))
	}

	return doc, nil
}

// Encode renders the document as INI text. Sections are separated by a
// blank line. Parse(Encode(d)) reproduces d, and Encode reproduces any file
// that was already written in this canonical form.
func Encode(d *Document) []byte {
	var buf bytes.Buffer
	for i, n := range d.names {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteByte('[')
		buf.WriteString(n)
		buf.WriteString("]\n")
		writePairs(&buf, *d.sections[n])
	}
	return buf.Bytes()
}

// EncodeSection renders the pairs of one section without a header.
func EncodeSection(s Section) []byte {
	var buf bytes.Buffer
	writePairs(&buf, s)
	return buf.Bytes()
}

func writePairs(buf *bytes.Buffer, s Section) {
	for _, k := range s.keys {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(s.values[k])
		buf.WriteByte('\n')
	}
}

// checkPair reports why section, key and value cannot be written as INI
// text that Parse reads back unchanged, or returns nil if they can.
func checkPair(section, key, value string) error {
	switch {
	case strings.ContainsAny(section, "[]\r\n"):
		return fmt.Errorf("section %q must not contain brackets or line breaks", section)
	case hasOuterSpace(section):
		return fmt.Errorf("section %q must not start or end with whitespace", section)
	case strings.ContainsAny(key, "=\r\n"):
		return fmt.Errorf("key %q must not contain '=' or line breaks", key)
	case strings.ContainsAny(key[:1], ";#["):
		return fmt.Errorf("key %q must not start with %q", key, key[:1])
	case hasOuterSpace(key):
		return fmt.Errorf("key %q must not start or end with whitespace", key)
	case strings.ContainsAny(value, "\r\n"):
		return fmt.Errorf("value for %s.%s must not contain line breaks", section, key)
	case hasOuterSpace(value):
		return fmt.Errorf("value for %s.%s must not start or end with whitespace", section, key)
	}
	return nil
}

func hasOuterSpace(s string) bool {
	return s != strings.TrimSpace(s)
}
