package fieldtree

// FieldType is the simplified enum for the field kinds found in a form's
// field hierarchy.
type FieldType string

const (
	TypeText    FieldType = "text"
	TypeButton  FieldType = "button"
	TypeChoice  FieldType = "choice"
	TypeUnknown FieldType = "unknown"
)

// ButtonKind distinguishes single on/off toggles from groups of mutually
// exclusive options. Non-button nodes use ButtonNone.
type ButtonKind string

const (
	ButtonNone     ButtonKind = ""
	ButtonCheckbox ButtonKind = "checkbox"
	ButtonGroup    ButtonKind = "group"
)

// NodeID is a handle into a Tree's node arena.
type NodeID int

// NoParent marks root-level nodes.
const NoParent NodeID = -1

// Node is one entry of the field hierarchy. Button values and states are
// stored without the leading "/" name marker.
type Node struct {
	ID       NodeID    `json:"id"`
	Parent   NodeID    `json:"parent"`
	Children []NodeID  `json:"children,omitempty"`
	Depth    int       `json:"depth"`
	RawName  string    `json:"rawName,omitempty"`
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	// Tag is the type tag exactly as found in the source ("/Tx", "/Sig", ...).
	Tag          string     `json:"tag,omitempty"`
	ButtonKind   ButtonKind `json:"buttonKind,omitempty"`
	Flags        int        `json:"flags,omitempty"`
	Value        string     `json:"value,omitempty"`
	Default      string     `json:"default,omitempty"`
	State        string     `json:"state,omitempty"`
	MaxLength    int        `json:"maxLength,omitempty"`
	Options      []string   `json:"options,omitempty"`
	Synthesized  bool       `json:"synthesized,omitempty"`
	NameFallback bool       `json:"nameFallback,omitempty"`

	rawOptions []any
}

// IsButton reports whether the node holds a selection state.
func (n Node) IsButton() bool {
	return n.Type == TypeButton
}

// Tree owns the nodes built from a field dump. Its shape is fixed once Build
// returns; only values, defaults and selection states change afterwards.
type Tree struct {
	nodes []Node
	roots []NodeID
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Roots returns the top-level node handles in source order.
func (t *Tree) Roots() []NodeID {
	if t == nil {
		return nil
	}
	return append([]NodeID(nil), t.roots...)
}

// Node returns a copy of the node identified by id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}
	node := t.nodes[id]
	node.Children = append([]NodeID(nil), node.Children...)
	node.Options = append([]string(nil), node.Options...)
	return node, true
}

// Children returns the child handles of id in source order.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return append([]NodeID(nil), t.nodes[id].Children...)
}

// SetValue replaces the stored value of a node.
func (t *Tree) SetValue(id NodeID, value string) bool {
	if !t.valid(id) {
		return false
	}
	t.nodes[id].Value = value
	return true
}

// SetState replaces the visible selection state of a node.
func (t *Tree) SetState(id NodeID, state string) bool {
	if !t.valid(id) {
		return false
	}
	t.nodes[id].State = state
	return true
}

// Walk visits every node in depth-first pre-order (the arena order). Walk
// stops early when fn returns false.
func (t *Tree) Walk(fn func(Node) bool) {
	if t == nil || fn == nil {
		return
	}
	for id := range t.nodes {
		node, _ := t.Node(NodeID(id))
		if !fn(node) {
			return
		}
	}
}

func (t *Tree) valid(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes)
}
