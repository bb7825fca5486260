package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() []Node {
	return []Node{
		{ID: "KIT", Name: "Leg kit", Category: "LEGS", Quantity: 1, Kind: KindAssembly, Children: []Node{
			{ID: "LEG", Name: "Leg", Category: "PART", Quantity: 4, Kind: KindPart, Children: []Node{}},
			{ID: "HW", Name: "Hardware", Category: "", Quantity: 1, Kind: KindAssembly, Children: []Node{
				{ID: "BOLT", Name: "Bolt", Category: "PART", Quantity: 8, Kind: KindPart, Children: []Node{}},
			}},
		}},
		{ID: "SHELF", Name: "Shelf", Category: "ACCESSORY", Quantity: 2, Kind: KindAssembly, Children: []Node{
			{ID: "BOLT", Name: "Bolt", Category: "PART", Quantity: 6, Kind: KindPart, Children: []Node{}},
		}},
	}
}

func TestFlatten_PreOrderWithAncestry(t *testing.T) {
	flat := Flatten(sampleTree())
	require.Len(t, flat, 6)

	testCases := []struct {
		id       string
		depth    int
		path     string
		category string
	}{
		{id: "KIT", depth: 0, path: "", category: "LEGS"},
		{id: "LEG", depth: 1, path: "Leg kit", category: "PART"},
		{id: "HW", depth: 1, path: "Leg kit", category: CategoryMiscellaneous},
		{id: "BOLT", depth: 2, path: "Leg kit → Hardware", category: "PART"},
		{id: "SHELF", depth: 0, path: "", category: "ACCESSORY"},
		{id: "BOLT", depth: 1, path: "Shelf", category: "PART"},
	}
	for i, tc := range testCases {
		assert.Equal(t, tc.id, flat[i].ID, "position %d", i)
		assert.Equal(t, tc.depth, flat[i].Depth, "position %d", i)
		assert.Equal(t, tc.path, flat[i].ParentPath, "position %d", i)
		assert.Equal(t, tc.category, flat[i].Category, "position %d", i)
		assert.NotNil(t, flat[i].CriticalityTags)
	}
	assert.Equal(t, 2, TopLevel(flat))
}

func TestFlatten_Empty(t *testing.T) {
	flat := Flatten(nil)
	assert.NotNil(t, flat)
	assert.Empty(t, flat)
	assert.Empty(t, GroupByCategory(flat))
	assert.Empty(t, Aggregate(flat))
}

func TestGroupByCategory(t *testing.T) {
	flat := Flatten(sampleTree())
	groups := GroupByCategory(flat)

	names := make([]string, 0, len(groups))
	total := 0
	for _, g := range groups {
		names = append(names, g.Category)
		total += len(g.Items)
	}
	assert.Equal(t, []string{"ACCESSORY", "LEGS", CategoryMiscellaneous, "PART"}, names)
	assert.Equal(t, len(flat), total)
	assert.Equal(t, map[string]int{"ACCESSORY": 1, "LEGS": 1, CategoryMiscellaneous: 1, "PART": 3}, CategoryCounts(flat))
}

func TestAggregate_SumsLeavesInFirstSeenOrder(t *testing.T) {
	lines := Aggregate(Flatten(sampleTree()))
	require.Len(t, lines, 2)

	assert.Equal(t, "LEG", lines[0].ID)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, "BOLT", lines[1].ID)
	assert.Equal(t, 14, lines[1].Quantity)
	assert.Equal(t, 2, lines[1].Occurrences)
}

func TestAggregate_FaultedAssemblyCountsAsLeaf(t *testing.T) {
	nodes := []Node{{ID: "LOOP", Name: "Loop", Quantity: 1, Kind: KindAssembly, Fault: FaultCircularReference, Children: []Node{}}}
	lines := Aggregate(Flatten(nodes))
	require.Len(t, lines, 1)
	assert.Equal(t, "LOOP", lines[0].ID)
}
