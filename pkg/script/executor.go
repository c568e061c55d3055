// Package script is the executable front-end for the layout engine:
// template bodies are Starlark scripts that emit text and call the
// inheritance directives on a handle scoped to their own render.
package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neurodesk/layout/pkg/layout"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Executor runs template bodies as Starlark scripts. Each body gets its
// own thread and its own directive builtins closed over that body's
// builder, so concurrent renders cannot interfere. It implements
// layout.Executor.
type Executor struct {
	// MaxSteps bounds the Starlark execution steps per body; 0 means
	// unlimited. Set it when template sources are not fully trusted.
	MaxSteps uint64
}

func (x Executor) Execute(ctx context.Context, path, body string, b *layout.Builder, vars layout.Context) error {
	thread := &starlark.Thread{
		Name: "layout " + path,
		Print: func(_ *starlark.Thread, msg string) {
			slog.Debug("template print", "template", path, "message", msg)
		},
	}
	if x.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(x.MaxSteps)
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel("render cancelled")
	})
	defer stop()

	predeclared := directives(b)
	for k, v := range vars {
		predeclared[k] = ConvertToStarlark(v)
	}

	if _, err := starlark.ExecFileOptions(fileOptions, thread, path, body, predeclared); err != nil {
		// EvalError unwraps to the directive error, so callers can still
		// match the layout error kinds with errors.As.
		return fmt.Errorf("template %s: %w", path, err)
	}
	return nil
}

// fileOptions allows top-level control flow so bodies can emit block
// content from loops and conditionals.
var fileOptions = &syntax.FileOptions{
	TopLevelControl: true,
	While:           true,
	GlobalReassign:  true,
}

// directives builds the four inheritance directives plus emit, all
// closed over this body's builder.
func directives(b *layout.Builder) starlark.StringDict {
	return starlark.StringDict{
		"emit": starlark.NewBuiltin("emit", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			for i := 0; i < len(args); i++ {
				b.Text(asString(args[i]))
			}
			return starlark.None, nil
		}),

		"block": starlark.NewBuiltin("block", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 1 {
				return starlark.None, fmt.Errorf("block requires exactly 1 argument: name")
			}
			if err := b.BeginBlock(asString(args[0])); err != nil {
				return starlark.None, err
			}
			return starlark.None, nil
		}),

		"endblock": starlark.NewBuiltin("endblock", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 0 {
				return starlark.None, fmt.Errorf("endblock takes no arguments")
			}
			if err := b.EndBlock(); err != nil {
				return starlark.None, err
			}
			return starlark.None, nil
		}),

		"super": starlark.NewBuiltin("super", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 0 {
				return starlark.None, fmt.Errorf("super takes no arguments")
			}
			if err := b.Super(); err != nil {
				return starlark.None, err
			}
			return starlark.None, nil
		}),

		"extends": starlark.NewBuiltin("extends", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if len(args) != 1 {
				return starlark.None, fmt.Errorf("extends requires exactly 1 argument: template name")
			}
			if err := b.Extend(asString(args[0])); err != nil {
				return starlark.None, err
			}
			return starlark.None, nil
		}),
	}
}

// asString renders a Starlark value for emission: strings without
// quotes, everything else through the layout value conversion.
func asString(v starlark.Value) string {
	if s, ok := v.(starlark.String); ok {
		return string(s)
	}
	return ConvertFromStarlark(v).String()
}
