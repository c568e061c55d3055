// Package markup is the delimiter front-end for the layout engine. It
// pre-parses a template body into an explicit stream of text and
// directive events, which Executor replays into a capture builder.
//
// The dialect is deliberately small: {% block name %}, {% endblock %},
// {% extends 'parent' %}, {{ super() }}, {{ variable }} with dotted
// lookups, and {# comments #}. There is no expression language.
package markup

import (
	"fmt"
	"strings"
)

// EventKind discriminates the events produced by Lex.
type EventKind int

const (
	EventText     EventKind = iota // literal text; Arg is the text
	EventOutput                    // {{ name }}; Arg is the dotted variable name
	EventSuper                     // {{ super() }}
	EventBlock                     // {% block name %}; Arg is the block name
	EventEndBlock                  // {% endblock %}
	EventExtends                   // {% extends 'name' %}; Arg is the template name
)

// Event is one element of a template's text/directive stream.
type Event struct {
	Kind EventKind
	Arg  string
	Pos  int // byte offset of the event's opening delimiter
}

type lexer struct {
	src []byte
	i   int
	n   int
}

// Lex scans a template body into its event stream. It fails on
// unterminated tags, unknown statements, and anything inside {{ }} that
// is not a dotted variable name or super().
func Lex(src string) ([]Event, error) {
	l := &lexer{src: []byte(src), n: len(src)}
	var events []Event
	for {
		ev, ok, err := l.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return events, nil
		}
		events = append(events, ev)
	}
}

func (l *lexer) next() (Event, bool, error) {
	if l.i >= l.n {
		return Event{}, false, nil
	}
	start := l.i
	for l.i < l.n {
		if l.i+2 <= l.n {
			switch string(l.src[l.i : l.i+2]) {
			case "{{", "{%", "{#":
				if l.i > start {
					s := string(l.src[start:l.i])
					return Event{Kind: EventText, Arg: s, Pos: start}, true, nil
				}
				return l.tag()
			}
		}
		l.i++
	}
	if start < l.n {
		return Event{Kind: EventText, Arg: string(l.src[start:l.n]), Pos: start}, true, nil
	}
	return Event{}, false, nil
}

// tag consumes one {{ }}, {% %}, or {# #} tag beginning at l.i.
func (l *lexer) tag() (Event, bool, error) {
	pos := l.i
	open := string(l.src[l.i : l.i+2])
	l.i += 2
	switch open {
	case "{{":
		inner, ok := l.scanUntil("}}")
		if !ok {
			return Event{}, false, fmt.Errorf("unterminated variable tag {{ ... }} at offset %d", pos)
		}
		expr := strings.TrimSpace(inner)
		if expr == "super()" {
			return Event{Kind: EventSuper, Pos: pos}, true, nil
		}
		if !isDottedName(expr) {
			return Event{}, false, fmt.Errorf("unsupported expression %q at offset %d", expr, pos)
		}
		return Event{Kind: EventOutput, Arg: expr, Pos: pos}, true, nil
	case "{%":
		inner, ok := l.scanUntil("%}")
		if !ok {
			return Event{}, false, fmt.Errorf("unterminated statement tag {%% ... %%} at offset %d", pos)
		}
		return l.statement(strings.TrimSpace(inner), pos)
	default: // "{#"
		if _, ok := l.scanUntil("#}"); !ok {
			return Event{}, false, fmt.Errorf("unterminated comment tag {# ... #} at offset %d", pos)
		}
		return l.next()
	}
}

func (l *lexer) statement(stmt string, pos int) (Event, bool, error) {
	name, args := splitNameArgs(stmt)
	switch name {
	case "block":
		if !isName(args) {
			return Event{}, false, fmt.Errorf("block requires a name at offset %d", pos)
		}
		return Event{Kind: EventBlock, Arg: args, Pos: pos}, true, nil
	case "endblock":
		if args != "" {
			return Event{}, false, fmt.Errorf("endblock takes no arguments at offset %d", pos)
		}
		return Event{Kind: EventEndBlock, Pos: pos}, true, nil
	case "extends":
		t, ok := parseQuoted(args)
		if !ok || t == "" {
			return Event{}, false, fmt.Errorf("extends expects a quoted template name at offset %d", pos)
		}
		return Event{Kind: EventExtends, Arg: t, Pos: pos}, true, nil
	default:
		return Event{}, false, fmt.Errorf("unsupported statement %q at offset %d", name, pos)
	}
}

// scanUntil consumes up to and including delim, returning the text
// before it, or false if the input ends first.
func (l *lexer) scanUntil(delim string) (string, bool) {
	start := l.i
	for l.i+len(delim) <= l.n {
		match := true
		for j := 0; j < len(delim); j++ {
			if l.src[l.i+j] != delim[j] {
				match = false
				break
			}
		}
		if match {
			s := string(l.src[start:l.i])
			l.i += len(delim)
			return s, true
		}
		l.i++
	}
	l.i = l.n
	return "", false
}

func splitNameArgs(stmt string) (name, args string) {
	s := strings.TrimSpace(stmt)
	if s == "" {
		return "", ""
	}
	i := 0
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isDottedName(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if !isName(part) {
			return false
		}
	}
	return true
}

func parseQuoted(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "", false
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return "", false
	}
	return s[1 : len(s)-1], true
}
