package resolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/order"
	"sink-bom-backend/internal/parse"
)

func f(v float64) *float64 { return &v }

func ids(items []RequestItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestResolveBuild_ModelLegsFeet(t *testing.T) {
	cfg := &order.Configuration{
		SinkSelection: order.SinkSelection{SinkModelID: "T2-DL27", BuildNumbers: []string{"B1"}},
		Configurations: map[string]order.BuildConfiguration{
			"B1": {Width: f(48), Length: f(24), LegsTypeID: "T2-DL27-KIT", FeetTypeID: "T2-LEVELING-CASTOR-475"},
		},
	}

	req, err := ResolveBuild(cfg, "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{"T2-DL27", "T2-DL27-KIT", "T2-LEVELING-CASTOR-475"}, ids(req.Items))
	for _, it := range req.Items {
		assert.Equal(t, 1, it.Quantity)
		assert.Empty(t, it.Category, "model, legs and feet keep their catalog category")
	}
	assert.Equal(t, RoleModel, req.Items[0].Role)
}

func TestResolveBuild_FullSelection(t *testing.T) {
	cfg := &order.Configuration{
		SinkSelection: order.SinkSelection{SinkModelID: "T2-DL27", BuildNumbers: []string{"B1"}},
		Configurations: map[string]order.BuildConfiguration{
			"B1": {
				Width: f(30), Length: f(72),
				LegsTypeID:             "T2-DL27-KIT",
				Pegboard:               true,
				PegboardTypeID:         "perf",
				PegboardColor:          "Blue",
				DrawersAndCompartments: []string{"T2-DRAWER-SINGLE"},
				Basins: []order.BasinSpec{
					{BasinTypeID: "T2-BSN-ESK-KIT", BasinSizePartNumber: "T2-ADW-BASIN24X20X8", AddonIDs: []string{"T2-OA-BASIN-LIGHT-KIT"}},
					{BasinTypeID: "T2-BSN-EDR-KIT", BasinSizePartNumber: "CUSTOM", CustomWidth: f(26), CustomLength: f(18), CustomDepth: f(9)},
				},
				Faucets:  []order.FaucetSpec{{FaucetTypeID: "T2-OA-STD-FAUCET-WB-KIT", Quantity: 2}},
				Sprayers: []order.SprayerSpec{{SprayerTypeID: "T2-OA-WATERGUN-TURRET-KIT"}},
			},
		},
		Accessories: map[string][]order.AccessoryItem{"B1": {{AssemblyID: "702.85", Quantity: 2}}},
	}

	req, err := ResolveBuild(cfg, "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"T2-DL27",
		"T2-DL27-KIT",
		"T2-ADW-PB-70-PERF",
		PegboardColorID,
		"T2-DRAWER-SINGLE",
		"T2-BSN-ESK-KIT",
		"T2-ADW-BASIN24X20X8",
		"T2-OA-BASIN-LIGHT-KIT",
		"T2-BSN-EDR-KIT",
		"CUSTOM-BASIN-26X18X9",
		"T2-OA-STD-FAUCET-WB-KIT",
		"T2-OA-WATERGUN-TURRET-KIT",
		"702.85",
	}, ids(req.Items))

	byID := make(map[string]RequestItem)
	for _, it := range req.Items {
		byID[it.ID] = it
	}
	assert.Equal(t, CategoryBasin, byID["T2-BSN-ESK-KIT"].Category)
	assert.Equal(t, CategoryBasinSize, byID["T2-ADW-BASIN24X20X8"].Category)
	assert.Equal(t, CategoryBasin, byID["T2-OA-BASIN-LIGHT-KIT"].Category)
	assert.Equal(t, &parse.Dimensions{Width: 26, Length: 18, Depth: 9}, byID["CUSTOM-BASIN-26X18X9"].Custom)
	assert.Equal(t, 2, byID["T2-OA-STD-FAUCET-WB-KIT"].Quantity)
	assert.Equal(t, 1, byID["T2-OA-WATERGUN-TURRET-KIT"].Quantity, "zero quantity means one")
	assert.Equal(t, CategoryAccessory, byID["702.85"].Category)
	assert.Equal(t, 2, byID["702.85"].Quantity)
}

func TestResolveBuild_UnknownBuild(t *testing.T) {
	cfg := &order.Configuration{SinkSelection: order.SinkSelection{SinkModelID: "T2-DL27"}}
	_, err := ResolveBuild(cfg, "B9")
	assert.Error(t, err)
}

func TestResolve_KeepsBuildOrder(t *testing.T) {
	cfg := &order.Configuration{
		SinkSelection: order.SinkSelection{SinkModelID: "T2-DL27", BuildNumbers: []string{"B2", "B1"}},
		Configurations: map[string]order.BuildConfiguration{
			"B1": {Width: f(48), Length: f(24)},
			"B2": {Width: f(48), Length: f(24)},
		},
	}
	reqs, err := Resolve(cfg)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "B2", reqs[0].BuildNumber)
	assert.Equal(t, "B1", reqs[1].BuildNumber)
}

func TestPegboardSize(t *testing.T) {
	testCases := []struct {
		length   float64
		expected int
	}{
		{length: 10, expected: 34},
		{length: 34, expected: 34},
		{length: 45.9, expected: 34},
		{length: 46, expected: 46},
		{length: 48, expected: 46},
		{length: 72, expected: 70},
		{length: 130, expected: 130},
		{length: 200, expected: 130},
		{length: 129, expected: 118},
		{length: 1e19, expected: 130},
		{length: math.Inf(1), expected: 130},
		{length: math.NaN(), expected: 34},
		{length: -1e19, expected: 34},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, PegboardSize(tc.length), "length %g", tc.length)
	}
}

type basinTypes map[string]catalog.BasinKind

func (b basinTypes) BasinType(id string) (*catalog.BasinType, error) {
	kind, ok := b[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &catalog.BasinType{ID: id, Kind: kind}, nil
}

func TestDeriveFacts(t *testing.T) {
	dims := parse.Dimensions{Width: 20, Length: 20, Depth: 8}
	req := BuildRequest{Items: []RequestItem{
		{ID: "T2-DL27", Quantity: 1, Role: RoleModel},
		{ID: "T2-ADW-PB-46-PERF", Quantity: 1, Role: RolePegboard},
		{ID: "EDR", Quantity: 1, Role: RoleBasinType},
		{ID: "CUSTOM-BASIN-20X20X8", Quantity: 1, Role: RoleBasinSize, Custom: &dims},
		{ID: "DI", Quantity: 1, Role: RoleBasinType},
		{ID: "SIZE", Quantity: 1, Role: RoleBasinSize},
		{ID: "FCT", Quantity: 3, Role: RoleFaucet},
		{ID: "ACC", Quantity: 2, Role: RoleAccessory},
	}}

	facts := DeriveFacts(req, basinTypes{"EDR": catalog.BasinKindEDrain, "DI": catalog.BasinKindESinkDI})
	assert.Equal(t, Facts{
		HasPegboard:    true,
		HasEDrainBasin: true,
		HasESinkBasin:  true,
		HasDIBasin:     true,
		HasCustomBasin: true,
		BasinCount:     2,
		FaucetCount:    3,
		AccessoryCount: 2,
	}, facts)

	none := DeriveFacts(BuildRequest{Items: req.Items[:1]}, basinTypes{})
	assert.False(t, none.HasPegboard)
	assert.False(t, none.HasEDrainBasin)
}
