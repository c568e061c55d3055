package layout

import "strings"

// Builder captures one template body as it executes: literal text and
// the four inheritance directives. It owns the open-block stack and the
// pending-text buffer for exactly one unit, so concurrent renders never
// share capture state.
type Builder struct {
	unit    *Unit
	open    []*BlockNode // innermost open block last; empty means unit root
	pending strings.Builder
}

// NewBuilder returns a Builder for the template at path.
func NewBuilder(path string) *Builder {
	return &Builder{unit: &Unit{Path: path, blocks: map[string]*BlockNode{}}}
}

func (b *Builder) appendNode(n Node) {
	if len(b.open) > 0 {
		b.open[len(b.open)-1].append(n)
		return
	}
	b.unit.nodes = append(b.unit.nodes, n)
}

func (b *Builder) flush() {
	if b.pending.Len() == 0 {
		return
	}
	b.appendNode(&TextNode{Text: b.pending.String()})
	b.pending.Reset()
}

// Text buffers literal output.
func (b *Builder) Text(s string) {
	b.pending.WriteString(s)
}

// BeginBlock opens a named block. Block names share one flat namespace
// per unit, nested or not.
func (b *Builder) BeginBlock(name string) error {
	if _, ok := b.unit.blocks[name]; ok {
		return DuplicateBlockError{Path: b.unit.Path, Block: name}
	}
	b.flush()
	blk := &BlockNode{Name: name}
	b.appendNode(blk)
	b.unit.blocks[name] = blk
	b.unit.order = append(b.unit.order, name)
	b.open = append(b.open, blk)
	return nil
}

// EndBlock closes the innermost open block.
func (b *Builder) EndBlock() error {
	if len(b.open) == 0 {
		return EndOutsideBlockError{Path: b.unit.Path}
	}
	b.flush()
	b.open = b.open[:len(b.open)-1]
	return nil
}

// Super appends a super placeholder to the innermost open block.
func (b *Builder) Super() error {
	if len(b.open) == 0 {
		return SuperOutsideBlockError{Path: b.unit.Path}
	}
	b.flush()
	b.appendNode(&SuperNode{})
	return nil
}

// Extend records the unit's parent template. At most one parent may be
// declared per unit.
func (b *Builder) Extend(path string) error {
	if b.unit.parentPath != "" {
		return MultipleInheritanceError{Path: b.unit.Path, Parent: b.unit.parentPath, Extra: path}
	}
	if path == "" {
		return EmptyParentError{Path: b.unit.Path}
	}
	b.unit.parentPath = path
	return nil
}

// Finish flushes trailing text and returns the completed unit. The body
// must have closed every block it opened.
func (b *Builder) Finish() (*Unit, error) {
	b.flush()
	if n := len(b.open); n > 0 {
		name := b.open[n-1].Name
		b.Abort()
		return nil, UnclosedBlockError{Path: b.unit.Path, Block: name}
	}
	return b.unit, nil
}

// Abort closes every open capture scope and drops pending text, so a
// failed body cannot leak capture state into later output.
func (b *Builder) Abort() {
	b.pending.Reset()
	b.open = b.open[:0]
}
