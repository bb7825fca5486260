package bom

import (
	"math"
	"sort"
	"strings"

	"sink-bom-backend/internal/parse"
)

// PathSeparator joins ancestor names in FlatItem.ParentPath.
const PathSeparator = " → "

// FlatItem is one node of the tree in pre-order, with its ancestry and classification.
type FlatItem struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Quantity          int               `json:"quantity"`
	Category          string            `json:"category"`
	ItemType          string            `json:"itemType"`
	Kind              Kind              `json:"kind"`
	IsCustom          bool              `json:"isCustom"`
	CustomDimensions  *parse.Dimensions `json:"customDimensions,omitempty"`
	Dimensions        *parse.Dimensions `json:"dimensions,omitempty"`
	ParentPath        string            `json:"parentPath"`
	Depth             int               `json:"depth"`
	ManufacturingType string            `json:"manufacturingType"`
	ProcurementType   string            `json:"procurementType"`
	CriticalityTags   []string          `json:"criticalityTags"`
	Priority          string            `json:"priority,omitempty"`
	Fault             FaultCode         `json:"fault,omitempty"`
}

func categorize(override, catalogCode string) string {
	if override != "" {
		return override
	}
	if catalogCode != "" {
		return catalogCode
	}
	return CategoryMiscellaneous
}

// Flatten lists every node parent-first, siblings in declaration order. Classification
// fields are left empty; see Classifier.Annotate.
func Flatten(nodes []Node) []FlatItem {
	out := make([]FlatItem, 0, countNodes(nodes))
	var walk func(list []Node, depth int, ancestors []string)
	walk = func(list []Node, depth int, ancestors []string) {
		for _, n := range list {
			out = append(out, FlatItem{
				ID:               n.ID,
				Name:             n.Name,
				Quantity:         n.Quantity,
				Category:         categorize(n.Category, ""),
				ItemType:         n.ItemType,
				Kind:             n.Kind,
				IsCustom:         n.IsCustom,
				CustomDimensions: n.CustomDimensions,
				Dimensions:       n.Dimensions,
				ParentPath:       strings.Join(ancestors, PathSeparator),
				Depth:            depth,
				CriticalityTags:  []string{},
				Fault:            n.Fault,
			})
			if len(n.Children) > 0 {
				next := make([]string, len(ancestors), len(ancestors)+1)
				copy(next, ancestors)
				walk(n.Children, depth+1, append(next, n.Name))
			}
		}
	}
	walk(nodes, 0, nil)
	return out
}

func countNodes(nodes []Node) int {
	count := 0
	Walk(nodes, func(Node, int) { count++ })
	return count
}

// TopLevel counts the depth-0 entries of a flattened list.
func TopLevel(items []FlatItem) int {
	count := 0
	for _, it := range items {
		if it.Depth == 0 {
			count++
		}
	}
	return count
}

// CategoryGroup is the items of one category, in flattened order.
type CategoryGroup struct {
	Category string     `json:"category"`
	Items    []FlatItem `json:"items"`
}

// GroupByCategory reduces a flattened list to per-category groups, ordered by category name.
func GroupByCategory(items []FlatItem) []CategoryGroup {
	index := make(map[string]int)
	var groups []CategoryGroup
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(groups)
			index[it.Category] = i
			groups = append(groups, CategoryGroup{Category: it.Category})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Category < groups[b].Category })
	if groups == nil {
		return []CategoryGroup{}
	}
	return groups
}

// CategoryCounts maps each category to its number of flattened items.
func CategoryCounts(items []FlatItem) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Category]++
	}
	return counts
}

// AggregateLine is the total quantity of one leaf id across the whole tree.
type AggregateLine struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	ItemType    string `json:"itemType"`
	Quantity    int    `json:"quantity"`
	Occurrences int    `json:"occurrences"`
}

// Aggregate sums leaf quantities by id, in the order each id is first seen. Assemblies
// that were expanded are not lines of their own; faulted branches count as leaves.
func Aggregate(items []FlatItem) []AggregateLine {
	leaf := leafFlags(items)
	index := make(map[string]int)
	out := []AggregateLine{}
	for i, it := range items {
		if !leaf[i] {
			continue
		}
		j, ok := index[it.ID]
		if !ok {
			j = len(out)
			index[it.ID] = j
			out = append(out, AggregateLine{ID: it.ID, Name: it.Name, Category: it.Category, ItemType: it.ItemType})
		}
		out[j].Quantity = addQty(out[j].Quantity, it.Quantity)
		out[j].Occurrences++
	}
	return out
}

// addQty saturates at math.MaxInt; the overflowing branch already carries a fault.
func addQty(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// leafFlags marks items not followed by a deeper item, which in pre-order means no children.
func leafFlags(items []FlatItem) []bool {
	flags := make([]bool, len(items))
	for i := range items {
		flags[i] = i == len(items)-1 || items[i+1].Depth <= items[i].Depth
	}
	return flags
}
