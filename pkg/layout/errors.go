package layout

import "fmt"

// TemplateNotFoundError reports that a source provider could not resolve
// a template name, for the leaf or for any ancestor in the chain.
type TemplateNotFoundError struct{ Name string }

func (e TemplateNotFoundError) Error() string { return "template not found: " + e.Name }

// DuplicateBlockError reports two block declarations with the same name
// in one template unit.
type DuplicateBlockError struct{ Path, Block string }

func (e DuplicateBlockError) Error() string {
	return fmt.Sprintf("template %s: duplicate block %q", e.Path, e.Block)
}

// UnclosedBlockError reports a template body that ended with a block
// still open. Block names the innermost open block.
type UnclosedBlockError struct{ Path, Block string }

func (e UnclosedBlockError) Error() string {
	return fmt.Sprintf("template %s: unclosed block %q", e.Path, e.Block)
}

// EndOutsideBlockError reports an end-block directive with no matching
// open block.
type EndOutsideBlockError struct{ Path string }

func (e EndOutsideBlockError) Error() string {
	return fmt.Sprintf("template %s: end of block without an open block", e.Path)
}

// SuperOutsideBlockError reports a super directive at unit root, outside
// any block.
type SuperOutsideBlockError struct{ Path string }

func (e SuperOutsideBlockError) Error() string {
	return fmt.Sprintf("template %s: super() outside of a block", e.Path)
}

// EmptyParentError reports an extends declaration with an empty
// template name.
type EmptyParentError struct{ Path string }

func (e EmptyParentError) Error() string {
	return fmt.Sprintf("template %s: extends requires a template name", e.Path)
}

// MultipleInheritanceError reports a second parent declaration in one
// template unit.
type MultipleInheritanceError struct{ Path, Parent, Extra string }

func (e MultipleInheritanceError) Error() string {
	return fmt.Sprintf("template %s: already extends %q, cannot also extend %q", e.Path, e.Parent, e.Extra)
}

// DepthError reports an inheritance chain longer than the engine's bound.
type DepthError struct {
	Path  string
	Depth int
}

func (e DepthError) Error() string {
	return fmt.Sprintf("template %s: inheritance chain exceeds %d templates", e.Path, e.Depth)
}
