package layout

import "context"

// Executor runs one template body against the capture builder for that
// body's unit. vars carries the variables bound for the whole render.
type Executor interface {
	Execute(ctx context.Context, path, body string, b *Builder, vars Context) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, path, body string, b *Builder, vars Context) error

func (f ExecutorFunc) Execute(ctx context.Context, path, body string, b *Builder, vars Context) error {
	return f(ctx, path, body, b, vars)
}

// DefaultMaxDepth bounds the inheritance chain when Engine.MaxDepth is
// zero. It also catches self-extending templates.
const DefaultMaxDepth = 32

// Engine renders templates by resolving their inheritance chain: the
// leaf body is parsed, ancestors are parsed by following each unit's
// parent declaration, super placeholders are filled root-first, and
// blocks are overridden leaf-first into the root's final text.
type Engine struct {
	Source   Source
	Exec     Executor
	MaxDepth int
}

// New returns an Engine over the given source and body executor.
func New(src Source, exec Executor) *Engine {
	return &Engine{Source: src, Exec: exec}
}

// Render resolves the named template and returns its final text. All
// nodes and units built along the way belong to this call alone.
func (e *Engine) Render(ctx context.Context, name string, vars Context) (string, error) {
	chain, err := e.Chain(ctx, name, vars)
	if err != nil {
		return "", err
	}
	resolveSupers(chain)
	return compile(chain), nil
}

// Chain parses the named template and every ancestor it reaches through
// parent declarations, returning the units leaf-first. The leaf is
// always parsed, so an unresolvable name (including "") surfaces as the
// source's error and the returned chain is never empty.
func (e *Engine) Chain(ctx context.Context, name string, vars Context) ([]*Unit, error) {
	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var chain []*Unit
	for next := name; ; {
		if len(chain) >= maxDepth {
			return nil, DepthError{Path: next, Depth: maxDepth}
		}
		unit, err := e.parseUnit(ctx, next, vars)
		if err != nil {
			return nil, err
		}
		if len(chain) > 0 {
			chain[len(chain)-1].parent = unit
		}
		chain = append(chain, unit)
		if unit.parentPath == "" {
			return chain, nil
		}
		next = unit.parentPath
	}
}

// parseUnit loads and executes one template body. The source is loaded
// before any capture state exists, so a missing template never leaves a
// builder behind; on execution errors the builder is unwound before the
// error propagates.
func (e *Engine) parseUnit(ctx context.Context, name string, vars Context) (*Unit, error) {
	body, err := e.Source.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(name)
	if err := e.Exec.Execute(ctx, name, body, b, vars); err != nil {
		b.Abort()
		return nil, err
	}
	return b.Finish()
}

// resolveSupers walks the chain root-first. acc holds, for every block
// name seen so far, the nearest ancestor's rendered text; each unit
// first fills its own super placeholders from acc, then shadows acc
// with its own blocks' rendered text for further descendants.
func resolveSupers(chain []*Unit) {
	acc := map[string]string{}
	for i := len(chain) - 1; i >= 0; i-- {
		u := chain[i]
		for name, text := range acc {
			if blk, ok := u.blocks[name]; ok {
				blk.setSuper(text)
			}
		}
		for _, name := range u.order {
			acc[name] = u.blocks[name].renderString()
		}
	}
}

// compile walks the chain leaf-first. acc holds the authoritative text
// for every block name seen from the leaf up: each unit's blocks are
// overridden by descendant values, then re-rendered into acc, so the
// most specific value wins at every level. The root's node tree is the
// final document.
func compile(chain []*Unit) string {
	acc := map[string]string{}
	for _, u := range chain {
		for name, text := range acc {
			if blk, ok := u.blocks[name]; ok {
				blk.set(text)
			}
		}
		for _, name := range u.order {
			acc[name] = u.blocks[name].renderString()
		}
	}
	return chain[len(chain)-1].render()
}
