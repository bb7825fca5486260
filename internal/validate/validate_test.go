package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/order"
)

func loadCatalog(t *testing.T) *catalog.Snapshot {
	t.Helper()
	def, err := catalog.LoadFile("../../data/catalog.yaml")
	require.NoError(t, err)
	snap, err := catalog.New(def)
	require.NoError(t, err)
	return snap
}

func f(v float64) *float64 { return &v }

func baseConfig() *order.Configuration {
	return &order.Configuration{
		CustomerInfo: order.CustomerInfo{PONumber: "PO-1001", CustomerName: "Acme Labs"},
		SinkSelection: order.SinkSelection{
			SinkModelID:  "T2-DL27",
			Quantity:     1,
			BuildNumbers: []string{"B1"},
		},
		Configurations: map[string]order.BuildConfiguration{
			"B1": {
				Width:      f(48),
				Length:     f(24),
				LegsTypeID: "T2-DL27-KIT",
				FeetTypeID: "T2-LEVELING-CASTOR-475",
			},
		},
	}
}

func fields(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func TestValidate_ValidConfiguration(t *testing.T) {
	res := Validate(loadCatalog(t), baseConfig())
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.NotNil(t, res.Errors, "empty lists serialize as []")
}

func TestValidate_MissingModel(t *testing.T) {
	cfg := baseConfig()
	cfg.SinkSelection.SinkModelID = ""

	res := Validate(loadCatalog(t), cfg)
	require.False(t, res.IsValid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "sinkSelection.sinkModelId", res.Errors[0].Field)
	assert.Equal(t, CodeRequired, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Message, "sinkModelId")
}

func TestValidate_Rules(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(cfg *order.Configuration)
		field  string
		code   Code
	}{
		{
			name: "Unknown model",
			mutate: func(cfg *order.Configuration) {
				cfg.SinkSelection.SinkModelID = "T2-XX99"
			},
			field: "sinkSelection.sinkModelId",
			code:  CodeUnknownID,
		},
		{
			name: "Missing width",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Width = nil
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].width",
			code:  CodeRequired,
		},
		{
			name: "Length over model maximum",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Length = f(140)
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].length",
			code:  CodeOutOfRange,
		},
		{
			name: "Incompatible legs",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.LegsTypeID = "T2-LC1-KIT"
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].legsTypeId",
			code:  CodeIncompatible,
		},
		{
			name: "Unknown feet",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.FeetTypeID = "NOPE"
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].feetTypeId",
			code:  CodeUnknownID,
		},
		{
			name: "Unknown basin type",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Basins = []order.BasinSpec{{BasinTypeID: "T2-DL27-KIT", BasinSizePartNumber: "T2-ADW-BASIN24X20X8"}}
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].basins[0].basinTypeId",
			code:  CodeUnknownID,
		},
		{
			name: "Custom basin missing depth",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Basins = []order.BasinSpec{{BasinTypeID: "T2-BSN-ESK-KIT", BasinSizePartNumber: "CUSTOM", CustomWidth: f(20), CustomLength: f(20)}}
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].basins[0].customDepth",
			code:  CodeRequired,
		},
		{
			name: "Too many basins",
			mutate: func(cfg *order.Configuration) {
				cfg.SinkSelection.SinkModelID = "T2-LC1"
				b := cfg.Configurations["B1"]
				b.LegsTypeID = "T2-LC1-KIT"
				spec := order.BasinSpec{BasinTypeID: "T2-BSN-ESK-KIT", BasinSizePartNumber: "T2-ADW-BASIN20X20X8"}
				b.Basins = []order.BasinSpec{spec, spec}
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].basins",
			code:  CodeOutOfRange,
		},
		{
			name: "Pegboard without type",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Pegboard = true
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].pegboardTypeId",
			code:  CodeRequired,
		},
		{
			name: "Unknown faucet",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Faucets = []order.FaucetSpec{{FaucetTypeID: "FCT-NOPE", Quantity: 1}}
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].faucets[0].faucetTypeId",
			code:  CodeUnknownID,
		},
		{
			name: "Unknown sprayer",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Sprayers = []order.SprayerSpec{{SprayerTypeID: "GUN-NOPE"}}
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].sprayers[0].sprayerTypeId",
			code:  CodeUnknownID,
		},
		{
			name: "Unknown accessory",
			mutate: func(cfg *order.Configuration) {
				cfg.Accessories = map[string][]order.AccessoryItem{"B1": {{AssemblyID: "999.99", Quantity: 1}}}
			},
			field: "accessories[B1][0].assemblyId",
			code:  CodeUnknownID,
		},
		{
			name: "Build without configuration",
			mutate: func(cfg *order.Configuration) {
				cfg.SinkSelection.BuildNumbers = append(cfg.SinkSelection.BuildNumbers, "B2")
			},
			field: "configurations[B2]",
			code:  CodeRequired,
		},
		{
			name: "Negative faucet quantity",
			mutate: func(cfg *order.Configuration) {
				b := cfg.Configurations["B1"]
				b.Faucets = []order.FaucetSpec{{FaucetTypeID: "T2-OA-STD-FAUCET-WB-KIT", Quantity: -1}}
				cfg.Configurations["B1"] = b
			},
			field: "configurations[B1].faucets[0].quantity",
			code:  CodeOutOfRange,
		},
	}

	snap := loadCatalog(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig()
			tc.mutate(cfg)

			res := Validate(snap, cfg)
			assert.False(t, res.IsValid)
			require.Contains(t, fields(res.Errors), tc.field)
			for _, issue := range res.Errors {
				if issue.Field == tc.field {
					assert.Equal(t, tc.code, issue.Code)
				}
			}
		})
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := baseConfig()
	cfg.SinkSelection.SinkModelID = ""
	b := cfg.Configurations["B1"]
	b.Width = nil
	b.FeetTypeID = "NOPE"
	cfg.Configurations["B1"] = b
	cfg.Accessories = map[string][]order.AccessoryItem{"B1": {{AssemblyID: "999.99"}}}

	res := Validate(loadCatalog(t), cfg)
	assert.False(t, res.IsValid)
	assert.ElementsMatch(t, []string{
		"sinkSelection.sinkModelId",
		"configurations[B1].width",
		"configurations[B1].feetTypeId",
		"accessories[B1][0].assemblyId",
	}, fields(res.Errors))
}

func TestValidate_CustomBasinIsWarningOnly(t *testing.T) {
	cfg := baseConfig()
	b := cfg.Configurations["B1"]
	b.Basins = []order.BasinSpec{{
		BasinTypeID:         "T2-BSN-ESK-KIT",
		BasinSizePartNumber: order.CustomSizePartNumber,
		CustomWidth:         f(26),
		CustomLength:        f(18),
		CustomDepth:         f(9),
	}}
	cfg.Configurations["B1"] = b

	res := Validate(loadCatalog(t), cfg)
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodePendingApproval, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Message, "require approval")
}

func TestValidate_InactiveItemWarns(t *testing.T) {
	def, err := catalog.LoadFile("../../data/catalog.yaml")
	require.NoError(t, err)
	for i := range def.Assemblies {
		if def.Assemblies[i].ID == "T2-SEISMIC-FEET" {
			def.Assemblies[i].Status = catalog.StatusDiscontinued
		}
	}
	snap, err := catalog.New(def)
	require.NoError(t, err)

	cfg := baseConfig()
	b := cfg.Configurations["B1"]
	b.FeetTypeID = "T2-SEISMIC-FEET"
	cfg.Configurations["B1"] = b

	res := Validate(snap, cfg)
	assert.True(t, res.IsValid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, CodeInactiveItem, res.Warnings[0].Code)
}

func TestValidate_NilConfiguration(t *testing.T) {
	res := Validate(loadCatalog(t), nil)
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 1)
}

func TestValidate_StructIssuesAreOrdered(t *testing.T) {
	cfg := baseConfig()
	cfg.SinkSelection.BuildNumbers = []string{"B1", "B2", "B3", "B4", "B5"}
	for _, bn := range cfg.SinkSelection.BuildNumbers {
		cfg.Configurations[bn] = order.BuildConfiguration{
			Length:  f(24),
			Basins:  []order.BasinSpec{{BasinSizePartNumber: "T2-ADW-BASIN24X20X8"}},
			Faucets: []order.FaucetSpec{{FaucetTypeID: "T2-OA-STD-FAUCET-WB-KIT", Quantity: -1}},
		}
	}

	cat := loadCatalog(t)
	first := Validate(cat, cfg)
	require.False(t, first.IsValid)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first.Errors, Validate(cat, cfg).Errors)
	}

	structFields := make([]string, 0)
	for _, issue := range first.Errors {
		if issue.Code == CodeRequired && strings.HasSuffix(issue.Field, ".width") {
			structFields = append(structFields, issue.Field)
		}
	}
	assert.Equal(t, []string{
		"configurations[B1].width",
		"configurations[B2].width",
		"configurations[B3].width",
		"configurations[B4].width",
		"configurations[B5].width",
	}, structFields)
}
