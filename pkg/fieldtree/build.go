package fieldtree

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formfill/pkg/fieldname"
)

const (
	// CodeNodeCorrupt flags a node that could not be converted; the node and
	// its subtree are left out of the tree.
	CodeNodeCorrupt = "node-corrupt"

	unnamedPrefix = "unnamed_field_"
	offState      = "Off"
)

// Warning describes a recoverable problem found while building a tree.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RawName string `json:"rawName,omitempty"`
	Depth   int    `json:"depth"`
	// Dropped counts the source nodes left out, the failing node included.
	Dropped int `json:"dropped"`
}

// Diagnostics collects the warnings emitted by Build.
type Diagnostics struct {
	Warnings []Warning `json:"warnings,omitempty"`
}

// HasWarnings reports whether any warning was recorded.
func (d Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// Dropped returns the total number of source nodes omitted from the tree.
func (d Diagnostics) Dropped() int {
	total := 0
	for _, w := range d.Warnings {
		total += w.Dropped
	}
	return total
}

// BuildOption customises Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	maxDepth int
}

// WithMaxDepth treats nodes nested deeper than depth levels (roots are level
// 0) as corrupt. Zero disables the limit.
func WithMaxDepth(depth int) BuildOption {
	return func(cfg *buildConfig) {
		if depth >= 0 {
			cfg.maxDepth = depth
		}
	}
}

// buildContext is threaded through a single Build call so construction stays
// reentrant: the counter used for synthesized names lives here, not in
// package state.
type buildContext struct {
	cfg      buildConfig
	accepted int
	diags    Diagnostics
}

type pending struct {
	src    *SourceNode
	parent NodeID
	depth  int
}

// Build converts a field dump into a Tree. Nodes are visited depth-first in
// source order using an explicit stack. A node that fails conversion is
// dropped together with its subtree and reported in the returned
// Diagnostics; the build itself always succeeds.
func Build(roots []SourceNode, options ...BuildOption) (*Tree, Diagnostics) {
	ctx := &buildContext{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&ctx.cfg)
	}

	tree := &Tree{}
	stack := make([]pending, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, pending{src: &roots[i], parent: NoParent})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node, err := ctx.convert(item.src, item.depth)
		if err != nil {
			ctx.diags.Warnings = append(ctx.diags.Warnings, Warning{
				Code:    CodeNodeCorrupt,
				Message: err.Error(),
				RawName: item.src.rawName(),
				Depth:   item.depth,
				Dropped: countNodes(item.src),
			})
			continue
		}

		node.ID = NodeID(len(tree.nodes))
		node.Parent = item.parent
		tree.nodes = append(tree.nodes, node)
		ctx.accepted++

		if item.parent == NoParent {
			tree.roots = append(tree.roots, node.ID)
		} else {
			tree.nodes[item.parent].Children = append(tree.nodes[item.parent].Children, node.ID)
		}

		kids := item.src.Kids
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, pending{src: &kids[i], parent: node.ID, depth: item.depth + 1})
		}
	}

	return tree, ctx.diags
}

func (ctx *buildContext) convert(src *SourceNode, depth int) (Node, error) {
	if ctx.cfg.maxDepth > 0 && depth > ctx.cfg.maxDepth {
		return Node{}, fmt.Errorf("fieldtree: depth %d exceeds limit %d", depth, ctx.cfg.maxDepth)
	}

	node := Node{Depth: depth, Tag: src.FT}
	if raw := src.rawName(); raw != "" {
		decoded := fieldname.DecodeName(raw)
		node.RawName = raw
		node.Name = decoded.Name
		node.NameFallback = decoded.Fallback
	} else {
		node.Name = unnamedPrefix + strconv.Itoa(ctx.accepted)
		node.Synthesized = true
	}

	var err error
	if node.Flags, err = toInt(src.Ff); err != nil {
		return Node{}, fmt.Errorf("fieldtree: flags: %w", err)
	}
	if node.MaxLength, err = toInt(src.MaxLen); err != nil {
		return Node{}, fmt.Errorf("fieldtree: max length: %w", err)
	}
	if node.MaxLength < 0 {
		return Node{}, fmt.Errorf("fieldtree: max length %d is negative", node.MaxLength)
	}
	if node.Value, err = toScalar(src.V); err != nil {
		return Node{}, fmt.Errorf("fieldtree: value: %w", err)
	}
	if node.Default, err = toScalar(src.DV); err != nil {
		return Node{}, fmt.Errorf("fieldtree: default: %w", err)
	}
	node.State = StripMarker(src.AS)

	node.Type = typeFromTag(src.FT)
	switch node.Type {
	case TypeButton:
		node.Value = StripMarker(node.Value)
		node.Default = StripMarker(node.Default)
		if len(src.Kids) > 0 {
			node.ButtonKind = ButtonGroup
			node.Options = groupOptions(src.Kids)
		} else {
			node.ButtonKind = ButtonCheckbox
		}
	case TypeChoice:
		options, err := choiceOptions(src.Opt)
		if err != nil {
			return Node{}, fmt.Errorf("fieldtree: options: %w", err)
		}
		node.Options = options
		node.rawOptions = append([]any(nil), src.Opt...)
	}

	return node, nil
}

func typeFromTag(tag string) FieldType {
	switch StripMarker(strings.TrimSpace(tag)) {
	case "Tx":
		return TypeText
	case "Btn":
		return TypeButton
	case "Ch":
		return TypeChoice
	default:
		return TypeUnknown
	}
}

// StripMarker removes the leading "/" that marks name objects such as "/1"
// or "/Off".
func StripMarker(token string) string {
	return strings.TrimPrefix(strings.TrimSpace(token), "/")
}

func groupOptions(kids []SourceNode) []string {
	var out []string
	seen := make(map[string]struct{}, len(kids))
	for _, kid := range kids {
		state := StripMarker(kid.AS)
		if state == "" || state == offState {
			continue
		}
		if _, dup := seen[state]; dup {
			continue
		}
		seen[state] = struct{}{}
		out = append(out, state)
	}
	return out
}

func choiceOptions(raw []any) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for idx, entry := range raw {
		switch value := entry.(type) {
		case string:
			out = append(out, value)
		case []any:
			if len(value) != 2 {
				return nil, fmt.Errorf("entry %d: expected [export, display] pair, got %d items", idx, len(value))
			}
			export, ok := value[0].(string)
			if !ok {
				return nil, fmt.Errorf("entry %d: export value is %T", idx, value[0])
			}
			out = append(out, export)
		default:
			return nil, fmt.Errorf("entry %d: unsupported option %T", idx, entry)
		}
	}
	return out, nil
}

func toInt(raw any) (int, error) {
	switch value := raw.(type) {
	case nil:
		return 0, nil
	case int:
		return value, nil
	case int64:
		return int(value), nil
	case uint64:
		if value > math.MaxInt32 {
			return 0, fmt.Errorf("%d out of range", value)
		}
		return int(value), nil
	case float64:
		if value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
			return 0, fmt.Errorf("%v is not an integer", value)
		}
		return int(value), nil
	case json.Number:
		parsed, err := strconv.Atoi(value.String())
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", value.String())
		}
		return parsed, nil
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return 0, nil
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", value)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}

func toScalar(raw any) (string, error) {
	switch value := raw.(type) {
	case nil:
		return "", nil
	case string:
		return value, nil
	case bool:
		return strconv.FormatBool(value), nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case uint64:
		return strconv.FormatUint(value, 10), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	case json.Number:
		return value.String(), nil
	default:
		return "", fmt.Errorf("unsupported non-scalar %T", raw)
	}
}

func countNodes(src *SourceNode) int {
	total := 0
	stack := []*SourceNode{src}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		total++
		for i := range cur.Kids {
			stack = append(stack, &cur.Kids[i])
		}
	}
	return total
}
