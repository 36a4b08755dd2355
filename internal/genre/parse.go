package genre

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MalformedInputError reports raw genre text that could not be read as a list
// of strings. It is distinct from a well-formed empty list.
type MalformedInputError struct {
	Raw string
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed genre list %q: %v", e.Raw, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

var (
	errNotBracketed = errors.New("expected a bracketed list")
	errNotList      = errors.New("expected a flat list")
	errNotQuoted    = errors.New("expected quoted strings")
)

// ParseRawGenres reads the catalog's serialized genre list, for example
// "['indie pop', 'chillwave']", into trimmed, unquoted entries. Blank text
// means the catalog had no data and yields nil. Empty entries are dropped,
// so "['']" yields an empty list. Every entry must be a quoted string;
// bare words, numbers, nulls, tags, anchors and aliases are malformed.
func ParseRawGenres(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, nil
	}
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, &MalformedInputError{Raw: raw, Err: errNotBracketed}
	}

	// A list of quoted strings is also a YAML flow sequence once backslash
	// escapes inside single quotes are rewritten.
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(yamlQuotes(text)), &doc); err != nil {
		return nil, &MalformedInputError{Raw: raw, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, &MalformedInputError{Raw: raw, Err: errNotList}
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode || seq.Style&yaml.FlowStyle == 0 ||
		seq.Style&yaml.TaggedStyle != 0 || seq.Anchor != "" {
		return nil, &MalformedInputError{Raw: raw, Err: errNotList}
	}

	out := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		if !quotedString(item) {
			return nil, &MalformedInputError{Raw: raw, Err: errNotQuoted}
		}
		e := strings.TrimSpace(item.Value)
		if e == "" {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func quotedString(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" || n.Anchor != "" {
		return false
	}
	if n.Style&yaml.TaggedStyle != 0 {
		return false
	}
	return n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0
}

// yamlQuotes rewrites single-quoted entries written with backslash escapes,
// like 'rock n\'roll', into YAML single-quoted form, 'rock n''roll'.
// Double-quoted entries already use YAML's escapes and are copied as is.
func yamlQuotes(text string) string {
	if !strings.Contains(text, `\`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote == 0:
			if c == '\'' || c == '"' {
				quote = c
			}
			b.WriteByte(c)
		case c == '\\' && i+1 < len(text):
			next := text[i+1]
			i++
			if quote == '"' {
				b.WriteByte(c)
				b.WriteByte(next)
				continue
			}
			switch next {
			case '\'':
				b.WriteString("''")
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
		default:
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
