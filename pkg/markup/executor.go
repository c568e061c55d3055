package markup

import (
	"context"
	"fmt"

	"github.com/neurodesk/layout/pkg/layout"
)

// Executor replays a body's event stream into the capture builder,
// resolving output lookups against the render context. It implements
// layout.Executor.
type Executor struct {
	// Strict makes lookups of undefined variables an error instead of
	// rendering nothing.
	Strict bool
}

func (x Executor) Execute(_ context.Context, path, body string, b *layout.Builder, vars layout.Context) error {
	events, err := Lex(body)
	if err != nil {
		return fmt.Errorf("template %s: %w", path, err)
	}
	for _, ev := range events {
		switch ev.Kind {
		case EventText:
			b.Text(ev.Arg)
		case EventOutput:
			v, ok := vars.Lookup(ev.Arg)
			if !ok {
				if x.Strict {
					return fmt.Errorf("template %s: undefined variable %q at offset %d", path, ev.Arg, ev.Pos)
				}
				continue
			}
			b.Text(v.String())
		case EventSuper:
			if err := b.Super(); err != nil {
				return err
			}
		case EventBlock:
			if err := b.BeginBlock(ev.Arg); err != nil {
				return err
			}
		case EventEndBlock:
			if err := b.EndBlock(); err != nil {
				return err
			}
		case EventExtends:
			if err := b.Extend(ev.Arg); err != nil {
				return err
			}
		}
	}
	return nil
}
