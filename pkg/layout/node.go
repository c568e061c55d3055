package layout

import "strings"

// Node is any node in a template unit's content tree.
type Node interface {
	render(sb *strings.Builder)
}

// TextNode is a literal text span, fixed at creation.
type TextNode struct {
	Text string
}

func (t *TextNode) render(sb *strings.Builder) {
	sb.WriteString(t.Text)
}

// SuperNode is a placeholder for the nearest ancestor's rendered text of
// the enclosing block. It is filled at most once, during the super pass,
// and renders empty if no ancestor defines the block.
type SuperNode struct {
	text   string
	filled bool
}

func (s *SuperNode) render(sb *strings.Builder) {
	if s.filled {
		sb.WriteString(s.text)
	}
}

// BlockNode is a named, overridable region. Its children may be any mix
// of text, super placeholders, and nested blocks.
type BlockNode struct {
	Name string

	children   []Node
	override   string
	overridden bool
}

func (b *BlockNode) append(n Node) {
	b.children = append(b.children, n)
}

// set replaces the block's content with text, short-circuiting its
// children on render.
func (b *BlockNode) set(text string) {
	b.override = text
	b.overridden = true
}

// setSuper fills every direct SuperNode child with text. Supers inside
// nested blocks belong to those blocks and are filled on their own turn.
func (b *BlockNode) setSuper(text string) {
	for _, c := range b.children {
		if s, ok := c.(*SuperNode); ok && !s.filled {
			s.text = text
			s.filled = true
		}
	}
}

func (b *BlockNode) render(sb *strings.Builder) {
	if b.overridden {
		sb.WriteString(b.override)
		return
	}
	for _, c := range b.children {
		c.render(sb)
	}
}

func (b *BlockNode) renderString() string {
	var sb strings.Builder
	b.render(&sb)
	return sb.String()
}
