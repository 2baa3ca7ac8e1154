package fieldtree

import "sort"

// Summary aggregates the shape of a tree for discovery output.
type Summary struct {
	Total       int               `json:"total"`
	Levels      map[int]int       `json:"levels"`
	Types       map[FieldType]int `json:"types"`
	Checkboxes  int               `json:"checkboxes"`
	Groups      int               `json:"groups"`
	Limited     int               `json:"limited"`
	Synthesized int               `json:"synthesized"`
	Fallbacks   int               `json:"fallbacks"`
}

// Summary counts nodes per depth level and per type.
func (t *Tree) Summary() Summary {
	summary := Summary{
		Levels: make(map[int]int),
		Types:  make(map[FieldType]int),
	}
	if t == nil {
		return summary
	}
	for _, node := range t.nodes {
		summary.Total++
		summary.Levels[node.Depth]++
		summary.Types[node.Type]++
		switch node.ButtonKind {
		case ButtonCheckbox:
			summary.Checkboxes++
		case ButtonGroup:
			summary.Groups++
		}
		if node.MaxLength > 0 {
			summary.Limited++
		}
		if node.Synthesized {
			summary.Synthesized++
		}
		if node.NameFallback {
			summary.Fallbacks++
		}
	}
	return summary
}

// SortedLevels returns the populated depth levels in ascending order.
func (s Summary) SortedLevels() []int {
	levels := make([]int, 0, len(s.Levels))
	for level := range s.Levels {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}
