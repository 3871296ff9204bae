package source

import (
	"fmt"
	"strings"
)

// Selector matches elements. The supported grammar is a comma-separated list
// of compound selectors, each made of an optional tag followed by any number
// of #id, .class, [attr] and [attr=value] parts:
//
//	.viewport
//	section.viewport[data-kind=chart], #detail
type Selector struct {
	raw  string
	alts []compound
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key      string
	value    string
	hasValue bool
}

// ParseSelector parses a selector string. An empty string yields a selector
// that matches nothing.
func ParseSelector(s string) (Selector, error) {
	sel := Selector{raw: s}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c, err := parseCompound(part)
		if err != nil {
			return Selector{}, fmt.Errorf("parse selector %q: %w", s, err)
		}
		sel.alts = append(sel.alts, c)
	}
	return sel, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("#.[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	c.tag = readName()
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty id at offset %d", i)
			}
			c.id = name
		case '.':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty class at offset %d", i)
			}
			c.classes = append(c.classes, name)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute at offset %d", i)
			}
			body := s[i+1 : i+end]
			i += end + 1
			key, value, hasValue := strings.Cut(body, "=")
			key = strings.TrimSpace(key)
			if key == "" {
				return c, fmt.Errorf("empty attribute name")
			}
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			c.attrs = append(c.attrs, attrMatch{key: key, value: value, hasValue: hasValue})
		default:
			return c, fmt.Errorf("unexpected %q at offset %d", s[i], i)
		}
	}
	if c.tag != "*" && !validName(c.tag) {
		return c, fmt.Errorf("invalid tag %q (combinators are not supported)", c.tag)
	}
	if c.id != "" && !validName(c.id) {
		return c, fmt.Errorf("invalid id %q", c.id)
	}
	for _, class := range c.classes {
		if !validName(class) {
			return c, fmt.Errorf("invalid class %q", class)
		}
	}
	return c, nil
}

// validName accepts empty strings and identifier-like names.
func validName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Match reports whether e matches any alternative of the selector.
func (s Selector) Match(e *Element) bool {
	if e == nil {
		return false
	}
	for _, c := range s.alts {
		if c.match(e) {
			return true
		}
	}
	return false
}

// IsZero reports whether the selector matches nothing.
func (s Selector) IsZero() bool {
	return len(s.alts) == 0
}

func (s Selector) String() string {
	return s.raw
}

func (c compound) match(e *Element) bool {
	if c.tag != "" && c.tag != "*" && c.tag != e.Tag {
		return false
	}
	if c.id != "" && c.id != e.ID {
		return false
	}
	for _, class := range c.classes {
		if !e.HasClass(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := e.Attr(a.key)
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}
