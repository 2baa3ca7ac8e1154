// Package pathindex flattens a field tree into dotted paths
// ("F[0].Page_1[0].DOB_Month[0]") so writers can address nodes in O(1).
// An index is scoped to the tree it was built from and must be rebuilt when
// the tree is.
package pathindex

import (
	"strings"

	"github.com/goliatone/go-formfill/pkg/fieldtree"
)

// Separator joins decoded ancestor names into a full path.
const Separator = "."

// Conflict records two nodes that resolve to the same path. Kept is the
// later node in traversal order and wins the lookup; Shadowed can no longer
// be reached by path.
type Conflict struct {
	Path     string           `json:"path"`
	Kept     fieldtree.NodeID `json:"kept"`
	Shadowed fieldtree.NodeID `json:"shadowed"`
}

// Index maps full paths to node handles and back.
type Index struct {
	byPath    map[string]fieldtree.NodeID
	paths     []string
	order     []string
	conflicts []Conflict
}

// Build walks tree top-down with an explicit stack. A parent's path is known
// before its children are visited, so each path is computed exactly once.
func Build(tree *fieldtree.Tree) *Index {
	idx := &Index{
		byPath: make(map[string]fieldtree.NodeID, tree.Len()),
		paths:  make([]string, tree.Len()),
	}

	roots := tree.Roots()
	stack := make([]fieldtree.NodeID, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, ok := tree.Node(id)
		if !ok {
			continue
		}
		path := node.Name
		if node.Parent != fieldtree.NoParent {
			path = Join(idx.paths[node.Parent], node.Name)
		}
		idx.paths[id] = path

		if previous, exists := idx.byPath[path]; exists {
			idx.conflicts = append(idx.conflicts, Conflict{Path: path, Kept: id, Shadowed: previous})
		} else {
			idx.order = append(idx.order, path)
		}
		idx.byPath[path] = id

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}

	return idx
}

// Join appends name to a parent path.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

// Lookup resolves a full path to its node.
func (idx *Index) Lookup(path string) (fieldtree.NodeID, bool) {
	if idx == nil {
		return 0, false
	}
	id, ok := idx.byPath[path]
	return id, ok
}

// Path returns the full path computed for id.
func (idx *Index) Path(id fieldtree.NodeID) string {
	if idx == nil || id < 0 || int(id) >= len(idx.paths) {
		return ""
	}
	return idx.paths[id]
}

// Paths returns the distinct paths in tree order.
func (idx *Index) Paths() []string {
	if idx == nil {
		return nil
	}
	return append([]string(nil), idx.order...)
}

// Len returns the number of addressable paths.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byPath)
}

// Conflicts lists every path claimed by more than one node, in the order the
// overwrites happened.
func (idx *Index) Conflicts() []Conflict {
	if idx == nil {
		return nil
	}
	return append([]Conflict(nil), idx.conflicts...)
}

// WithPrefix returns the paths (tree order) that start with prefix followed
// by a separator, or equal prefix.
func (idx *Index) WithPrefix(prefix string) []string {
	var out []string
	for _, path := range idx.Paths() {
		if path == prefix || strings.HasPrefix(path, prefix+Separator) {
			out = append(out, path)
		}
	}
	return out
}
