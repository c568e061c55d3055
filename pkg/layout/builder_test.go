package layout

import (
	"errors"
	"testing"
)

func TestBuilderTextOnly(t *testing.T) {
	b := NewBuilder("plain")
	b.Text("hello ")
	b.Text("world")
	u, err := b.Finish()
	if err != nil {
		t.Fatalf("finish error: %v", err)
	}
	if got := u.render(); got != "hello world" {
		t.Fatalf("got %q", got)
	}
}

func TestBuilderDuplicateBlock(t *testing.T) {
	b := NewBuilder("dup")
	if err := b.BeginBlock("x"); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if err := b.EndBlock(); err != nil {
		t.Fatalf("end: %v", err)
	}
	err := b.BeginBlock("x")
	var dup DuplicateBlockError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateBlockError, got %v", err)
	}
	if dup.Block != "x" || dup.Path != "dup" {
		t.Fatalf("wrong fields: %+v", dup)
	}
}

func TestBuilderEndOutsideBlock(t *testing.T) {
	b := NewBuilder("stray")
	err := b.EndBlock()
	var stray EndOutsideBlockError
	if !errors.As(err, &stray) {
		t.Fatalf("want EndOutsideBlockError, got %v", err)
	}
}

func TestBuilderSuperOutsideBlock(t *testing.T) {
	b := NewBuilder("toplevel")
	err := b.Super()
	var sup SuperOutsideBlockError
	if !errors.As(err, &sup) {
		t.Fatalf("want SuperOutsideBlockError, got %v", err)
	}
}

func TestBuilderMultipleInheritance(t *testing.T) {
	b := NewBuilder("child")
	if err := b.Extend("first"); err != nil {
		t.Fatalf("first extend: %v", err)
	}
	err := b.Extend("second")
	var multi MultipleInheritanceError
	if !errors.As(err, &multi) {
		t.Fatalf("want MultipleInheritanceError, got %v", err)
	}
	if multi.Parent != "first" || multi.Extra != "second" {
		t.Fatalf("wrong fields: %+v", multi)
	}
}

func TestBuilderExtendEmptyName(t *testing.T) {
	b := NewBuilder("child")
	err := b.Extend("")
	var empty EmptyParentError
	if !errors.As(err, &empty) {
		t.Fatalf("want EmptyParentError, got %v", err)
	}
	if empty.Path != "child" {
		t.Fatalf("wrong path: %q", empty.Path)
	}
}

func TestBuilderUnclosedBlockNamesInnermost(t *testing.T) {
	b := NewBuilder("open")
	if err := b.BeginBlock("outer"); err != nil {
		t.Fatalf("begin outer: %v", err)
	}
	if err := b.BeginBlock("inner"); err != nil {
		t.Fatalf("begin inner: %v", err)
	}
	_, err := b.Finish()
	var unclosed UnclosedBlockError
	if !errors.As(err, &unclosed) {
		t.Fatalf("want UnclosedBlockError, got %v", err)
	}
	if unclosed.Block != "inner" {
		t.Fatalf("want innermost block named, got %q", unclosed.Block)
	}
}

func TestBuilderAbortUnwindsScopes(t *testing.T) {
	b := NewBuilder("failed")
	b.Text("pending")
	if err := b.BeginBlock("a"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	b.Text("inside")
	b.Abort()
	if len(b.open) != 0 {
		t.Fatalf("open stack not unwound: %d", len(b.open))
	}
	if b.pending.Len() != 0 {
		t.Fatalf("pending text not dropped: %q", b.pending.String())
	}
}

func TestBuilderSuperWithoutAncestorRendersEmpty(t *testing.T) {
	b := NewBuilder("lonely")
	if err := b.BeginBlock("x"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	b.Text("a")
	if err := b.Super(); err != nil {
		t.Fatalf("super: %v", err)
	}
	b.Text("b")
	if err := b.EndBlock(); err != nil {
		t.Fatalf("end: %v", err)
	}
	u, err := b.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if got := u.render(); got != "ab" {
		t.Fatalf("unfilled super should render empty, got %q", got)
	}
}
