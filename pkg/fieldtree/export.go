package fieldtree

// Export renders the tree back into dump form so an external writer can
// serialise the filled document. Raw name tokens, type tags, flags and
// choice options are reproduced as read; values and states reflect any
// mutation made since Build. Nodes dropped during Build are not part of the
// tree and therefore not exported.
func (t *Tree) Export() []SourceNode {
	if t == nil || len(t.nodes) == 0 {
		return nil
	}

	out := make([]SourceNode, len(t.nodes))
	// Children always carry larger IDs than their parent (pre-order arena),
	// so walking backwards finishes every subtree before it is copied into
	// its parent.
	for id := len(t.nodes) - 1; id >= 0; id-- {
		node := t.nodes[id]
		src := exportScalars(node)
		if len(node.Children) > 0 {
			src.Kids = make([]SourceNode, 0, len(node.Children))
			for _, child := range node.Children {
				src.Kids = append(src.Kids, out[child])
			}
		}
		out[id] = src
	}

	roots := make([]SourceNode, 0, len(t.roots))
	for _, id := range t.roots {
		roots = append(roots, out[id])
	}
	return roots
}

func exportScalars(node Node) SourceNode {
	src := SourceNode{FT: node.Tag}
	if !node.Synthesized {
		src.T = Name(node.RawName)
	}
	if node.Flags != 0 {
		src.Ff = node.Flags
	}
	if node.MaxLength > 0 {
		src.MaxLen = node.MaxLength
	}
	if node.IsButton() {
		src.V = markedOrNil(node.Value)
		src.DV = markedOrNil(node.Default)
	} else {
		src.V = stringOrNil(node.Value)
		src.DV = stringOrNil(node.Default)
	}
	if node.State != "" {
		src.AS = "/" + node.State
	}
	if len(node.rawOptions) > 0 {
		src.Opt = append([]any(nil), node.rawOptions...)
	}
	return src
}

func markedOrNil(value string) any {
	if value == "" {
		return nil
	}
	return "/" + value
}

func stringOrNil(value string) any {
	if value == "" {
		return nil
	}
	return value
}
