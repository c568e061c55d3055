package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// scriptedExec drives builders directly, standing in for a front-end.
type scriptedExec map[string]func(b *Builder) error

func (m scriptedExec) Execute(_ context.Context, path, _ string, b *Builder, _ Context) error {
	fn, ok := m[path]
	if !ok {
		return fmt.Errorf("no script for %s", path)
	}
	return fn(b)
}

func engineFor(exec scriptedExec) *Engine {
	src := MemorySource{}
	for name := range exec {
		src[name] = ""
	}
	return New(src, exec)
}

func must(t *testing.T, errs ...error) {
	t.Helper()
	for _, err := range errs {
		if err != nil {
			t.Fatalf("directive error: %v", err)
		}
	}
}

func TestRenderLiteralPassthrough(t *testing.T) {
	eng := engineFor(scriptedExec{
		"plain": func(b *Builder) error {
			b.Text("just text, no blocks")
			return nil
		},
	})
	out, err := eng.Render(context.Background(), "plain", nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "just text, no blocks" {
		t.Fatalf("got %q", out)
	}
}

func buildBaseA(b *Builder) error {
	b.Text("Hello ")
	if err := b.BeginBlock("title"); err != nil {
		return err
	}
	b.Text("Default")
	if err := b.EndBlock(); err != nil {
		return err
	}
	b.Text(" user")
	return nil
}

func TestSuperFillsAncestorText(t *testing.T) {
	eng := engineFor(scriptedExec{
		"a": buildBaseA,
		"b": func(b *Builder) error {
			must(t, b.Extend("a"))
			must(t, b.BeginBlock("title"))
			must(t, b.Super())
			b.Text(" and Guest")
			must(t, b.EndBlock())
			return nil
		},
	})
	out, err := eng.Render(context.Background(), "b", nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "Hello Default and Guest user" {
		t.Fatalf("got %q", out)
	}
}

func TestOverrideDiscardsAncestorText(t *testing.T) {
	eng := engineFor(scriptedExec{
		"a": buildBaseA,
		"c": func(b *Builder) error {
			must(t, b.Extend("a"))
			must(t, b.BeginBlock("title"))
			b.Text("Welcome")
			must(t, b.EndBlock())
			return nil
		},
	})
	out, err := eng.Render(context.Background(), "c", nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "Hello Welcome user" {
		t.Fatalf("got %q", out)
	}
}

func buildSuperChild(parent, block, suffix string) func(b *Builder) error {
	return func(b *Builder) error {
		if err := b.Extend(parent); err != nil {
			return err
		}
		if err := b.BeginBlock(block); err != nil {
			return err
		}
		if err := b.Super(); err != nil {
			return err
		}
		b.Text(suffix)
		return b.EndBlock()
	}
}

func TestThreeGenerationSuperChain(t *testing.T) {
	eng := engineFor(scriptedExec{
		"grand": func(b *Builder) error {
			must(t, b.BeginBlock("B"))
			b.Text("G")
			must(t, b.EndBlock())
			return nil
		},
		"parent": buildSuperChild("grand", "B", "-P"),
		"child":  buildSuperChild("parent", "B", "-C"),
	})
	out, err := eng.Render(context.Background(), "child", nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "G-P-C" {
		t.Fatalf("got %q", out)
	}
}

func TestUntouchedRootBlockKeepsItsText(t *testing.T) {
	eng := engineFor(scriptedExec{
		"root": func(b *Builder) error {
			must(t, b.BeginBlock("side"))
			b.Text("S")
			must(t, b.EndBlock())
			b.Text("|")
			must(t, b.BeginBlock("main"))
			b.Text("M")
			must(t, b.EndBlock())
			return nil
		},
		"leaf": func(b *Builder) error {
			must(t, b.Extend("root"))
			must(t, b.BeginBlock("main"))
			b.Text("overridden")
			must(t, b.EndBlock())
			return nil
		},
	})
	out, err := eng.Render(context.Background(), "leaf", nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "S|overridden" {
		t.Fatalf("got %q", out)
	}
}

func TestNestedBlockSuper(t *testing.T) {
	// inner is declared nested in the parent, top-level in the child;
	// both live in the same flat per-unit namespace.
	eng := engineFor(scriptedExec{
		"p": func(b *Builder) error {
			must(t, b.BeginBlock("outer"))
			b.Text("[")
			must(t, b.BeginBlock("inner"))
			b.Text("I")
			must(t, b.EndBlock())
			b.Text("]")
			must(t, b.EndBlock())
			return nil
		},
		"c": func(b *Builder) error {
			must(t, b.Extend("p"))
			must(t, b.BeginBlock("inner"))
			must(t, b.Super())
			b.Text("+C")
			must(t, b.EndBlock())
			return nil
		},
	})
	out, err := eng.Render(context.Background(), "c", nil)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "[I+C]" {
		t.Fatalf("got %q", out)
	}
}

func TestChainOrderLeafFirst(t *testing.T) {
	extend := func(parent string) func(b *Builder) error {
		return func(b *Builder) error { return b.Extend(parent) }
	}
	eng := engineFor(scriptedExec{
		"leaf":   extend("middle"),
		"middle": extend("root"),
		"root":   func(b *Builder) error { return nil },
	})
	chain, err := eng.Chain(context.Background(), "leaf", nil)
	if err != nil {
		t.Fatalf("chain error: %v", err)
	}
	var paths []string
	for _, u := range chain {
		paths = append(paths, u.Path)
	}
	if diff := cmp.Diff([]string{"leaf", "middle", "root"}, paths); diff != "" {
		t.Fatalf("chain order mismatch (-want +got):\n%s", diff)
	}
	if chain[0].ParentPath() != "middle" || chain[2].ParentPath() != "" {
		t.Fatalf("parent links wrong: %q %q", chain[0].ParentPath(), chain[2].ParentPath())
	}
}

func TestSelfExtendingTemplateHitsDepthBound(t *testing.T) {
	eng := engineFor(scriptedExec{
		"loop": func(b *Builder) error { return b.Extend("loop") },
	})
	eng.MaxDepth = 8
	_, err := eng.Render(context.Background(), "loop", nil)
	var depth DepthError
	if !errors.As(err, &depth) {
		t.Fatalf("want DepthError, got %v", err)
	}
	if depth.Depth != 8 {
		t.Fatalf("wrong bound: %+v", depth)
	}
}

func TestMissingLeafTemplate(t *testing.T) {
	eng := engineFor(scriptedExec{})
	_, err := eng.Render(context.Background(), "ghost", nil)
	var nf TemplateNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want TemplateNotFoundError, got %v", err)
	}
	if nf.Name != "ghost" {
		t.Fatalf("wrong name: %q", nf.Name)
	}
}

func TestEmptyTemplateName(t *testing.T) {
	eng := engineFor(scriptedExec{
		"real": func(b *Builder) error { return nil },
	})
	_, err := eng.Render(context.Background(), "", nil)
	var nf TemplateNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want TemplateNotFoundError, got %v", err)
	}
	if nf.Name != "" {
		t.Fatalf("wrong name: %q", nf.Name)
	}
}

func TestMissingAncestorTemplate(t *testing.T) {
	eng := engineFor(scriptedExec{
		"orphan": func(b *Builder) error { return b.Extend("ghost") },
	})
	_, err := eng.Render(context.Background(), "orphan", nil)
	var nf TemplateNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want TemplateNotFoundError, got %v", err)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	eng := engineFor(scriptedExec{
		"a": buildBaseA,
		"b": buildSuperChild("a", "title", "!"),
	})
	first, err := eng.Render(context.Background(), "b", nil)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := eng.Render(context.Background(), "b", nil)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if first != second {
		t.Fatalf("renders differ: %q vs %q", first, second)
	}
}

func TestConcurrentRenders(t *testing.T) {
	eng := engineFor(scriptedExec{
		"a": buildBaseA,
		"b": buildSuperChild("a", "title", " and Guest"),
	})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := eng.Render(context.Background(), "b", nil)
			if err != nil {
				t.Errorf("render error: %v", err)
				return
			}
			if out != "Hello Default and Guest user" {
				t.Errorf("got %q", out)
			}
		}()
	}
	wg.Wait()
}

func TestBlockNamesDeclarationOrder(t *testing.T) {
	eng := engineFor(scriptedExec{
		"multi": func(b *Builder) error {
			for _, name := range []string{"zeta", "alpha", "mid"} {
				must(t, b.BeginBlock(name))
				must(t, b.EndBlock())
			}
			return nil
		},
	})
	chain, err := eng.Chain(context.Background(), "multi", nil)
	if err != nil {
		t.Fatalf("chain error: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, chain[0].BlockNames()); diff != "" {
		t.Fatalf("block order mismatch (-want +got):\n%s", diff)
	}
}
