package layout

import (
	"slices"
	"strings"
)

// Unit is one parsed template: the root of its own node tree and one
// link in the inheritance chain. Units are created by a Builder inside a
// single Render call and discarded with it.
type Unit struct {
	Path string

	nodes      []Node
	blocks     map[string]*BlockNode
	order      []string // block names in declaration order
	parentPath string
	parent     *Unit
}

// ParentPath returns the name of the template this unit extends, or ""
// if the unit is a chain root.
func (u *Unit) ParentPath() string { return u.parentPath }

// BlockNames returns the unit's block names in declaration order,
// including blocks nested inside other blocks.
func (u *Unit) BlockNames() []string { return slices.Clone(u.order) }

func (u *Unit) render() string {
	var sb strings.Builder
	for _, n := range u.nodes {
		n.render(&sb)
	}
	return sb.String()
}
