package resolve

import (
	"fmt"
	"math"
	"strings"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/order"
	"sink-bom-backend/internal/parse"
)

// Role records why an item was requested.
type Role string

const (
	RoleModel         Role = "MODEL"
	RoleLegs          Role = "LEGS"
	RoleFeet          Role = "FEET"
	RolePegboard      Role = "PEGBOARD"
	RolePegboardColor Role = "PEGBOARD_COLOR"
	RoleDrawer        Role = "DRAWER"
	RoleBasinType     Role = "BASIN_TYPE"
	RoleBasinSize     Role = "BASIN_SIZE"
	RoleBasinAddon    Role = "BASIN_ADDON"
	RoleFaucet        Role = "FAUCET"
	RoleSprayer       Role = "SPRAYER"
	RoleAccessory     Role = "ACCESSORY"
)

// Category overrides applied to top-level items regardless of their catalog category.
const (
	CategoryAccessory = "ACCESSORY"
	CategoryBasin     = "BASIN"
	CategoryBasinSize = "BASIN_SIZE"
)

// PegboardColorID is requested when a pegboard is ordered in a colour.
const PegboardColorID = "T2-OA-PB-COLOR"

// RequestItem is one top-level catalog id with its requested quantity.
type RequestItem struct {
	ID       string            `json:"id"`
	Quantity int               `json:"quantity"`
	Role     Role              `json:"role"`
	Source   string            `json:"source"`
	Category string            `json:"category,omitempty"`
	Custom   *parse.Dimensions `json:"custom,omitempty"`
}

// BuildRequest is the flat request list for one build number.
type BuildRequest struct {
	BuildNumber string        `json:"buildNumber"`
	ModelID     string        `json:"modelId"`
	Length      float64       `json:"length"`
	Width       float64       `json:"width"`
	Items       []RequestItem `json:"items"`
}

// Resolve maps every build of a validated configuration to its request list, in the
// order the build numbers were selected.
func Resolve(cfg *order.Configuration) ([]BuildRequest, error) {
	out := make([]BuildRequest, 0, len(cfg.SinkSelection.BuildNumbers))
	for _, bn := range cfg.SinkSelection.BuildNumbers {
		req, err := ResolveBuild(cfg, bn)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// ResolveBuild maps one build's selections to top-level catalog ids. It performs no
// recursion into the catalog.
func ResolveBuild(cfg *order.Configuration, buildNumber string) (BuildRequest, error) {
	b, ok := cfg.Configurations[buildNumber]
	if !ok {
		return BuildRequest{}, fmt.Errorf("build %q has no configuration", buildNumber)
	}

	req := BuildRequest{
		BuildNumber: buildNumber,
		ModelID:     cfg.SinkSelection.SinkModelID,
		Width:       deref(b.Width),
		Length:      deref(b.Length),
	}
	add := func(item RequestItem) { req.Items = append(req.Items, item) }

	add(RequestItem{ID: req.ModelID, Quantity: 1, Role: RoleModel, Source: "sink model"})

	if b.LegsTypeID != "" {
		add(RequestItem{ID: b.LegsTypeID, Quantity: 1, Role: RoleLegs, Source: "legs"})
	}
	if b.FeetTypeID != "" {
		add(RequestItem{ID: b.FeetTypeID, Quantity: 1, Role: RoleFeet, Source: "feet"})
	}

	if b.Pegboard {
		size := PegboardSize(req.Length)
		add(RequestItem{ID: PegboardID(b.PegboardTypeID, size), Quantity: 1, Role: RolePegboard,
			Source: fmt.Sprintf("pegboard %s %din", strings.ToUpper(b.PegboardTypeID), size)})
		if color := strings.ToUpper(strings.TrimSpace(b.PegboardColor)); color != "" && color != "NONE" {
			add(RequestItem{ID: PegboardColorID, Quantity: 1, Role: RolePegboardColor, Source: "pegboard colour " + color})
		}
	}

	for i, id := range b.DrawersAndCompartments {
		add(RequestItem{ID: id, Quantity: 1, Role: RoleDrawer, Source: fmt.Sprintf("drawer/compartment %d", i+1)})
	}

	for i, basin := range b.Basins {
		label := fmt.Sprintf("basin %d", i+1)
		add(RequestItem{ID: basin.BasinTypeID, Quantity: 1, Role: RoleBasinType, Source: label + " type", Category: CategoryBasin})
		if basin.IsCustom() {
			dims := parse.Dimensions{Width: deref(basin.CustomWidth), Length: deref(basin.CustomLength), Depth: deref(basin.CustomDepth)}
			add(RequestItem{ID: parse.CustomBasinID(dims), Quantity: 1, Role: RoleBasinSize, Source: label + " custom size",
				Category: CategoryBasinSize, Custom: &dims})
		} else {
			add(RequestItem{ID: basin.BasinSizePartNumber, Quantity: 1, Role: RoleBasinSize, Source: label + " size", Category: CategoryBasinSize})
		}
		for _, addon := range basin.AddonIDs {
			add(RequestItem{ID: addon, Quantity: 1, Role: RoleBasinAddon, Source: label + " addon", Category: CategoryBasin})
		}
	}

	for i, fct := range b.Faucets {
		add(RequestItem{ID: fct.FaucetTypeID, Quantity: order.Qty(fct.Quantity), Role: RoleFaucet, Source: fmt.Sprintf("faucet %d", i+1)})
	}
	for i, spr := range b.Sprayers {
		add(RequestItem{ID: spr.SprayerTypeID, Quantity: order.Qty(spr.Quantity), Role: RoleSprayer, Source: fmt.Sprintf("sprayer %d", i+1)})
	}

	for _, acc := range cfg.Accessories[buildNumber] {
		add(RequestItem{ID: acc.AssemblyID, Quantity: order.Qty(acc.Quantity), Role: RoleAccessory, Source: "accessory", Category: CategoryAccessory})
	}

	return req, nil
}

// Pegboard widths start at the smallest standard panel and grow in fixed steps.
const (
	PegboardMinSize  = 34
	PegboardMaxSize  = 130
	PegboardSizeStep = 12
)

// PegboardSize picks the largest standard pegboard width that fits the sink length,
// clamped to the smallest and largest panels.
func PegboardSize(length float64) int {
	switch {
	case math.IsNaN(length) || length <= PegboardMinSize:
		return PegboardMinSize
	case length >= PegboardMaxSize:
		return PegboardMaxSize
	}
	steps := int(length-PegboardMinSize) / PegboardSizeStep
	return PegboardMinSize + steps*PegboardSizeStep
}

// PegboardID returns the catalog id of a pegboard of the given type and width.
func PegboardID(typeCode string, size int) string {
	return fmt.Sprintf("T2-ADW-PB-%d-%s", size, strings.ToUpper(typeCode))
}

// BasinCatalog looks up basin types for fact derivation.
type BasinCatalog interface {
	BasinType(id string) (*catalog.BasinType, error)
}

// Facts are the boolean predicates downstream QC forms evaluate against a build.
type Facts struct {
	HasPegboard    bool `json:"hasPegboard"`
	HasEDrainBasin bool `json:"hasEDrainBasin"`
	HasESinkBasin  bool `json:"hasESinkBasin"`
	HasDIBasin     bool `json:"hasDIBasin"`
	HasCustomBasin bool `json:"hasCustomBasin"`
	HasDrawers     bool `json:"hasDrawers"`
	BasinCount     int  `json:"basinCount"`
	FaucetCount    int  `json:"faucetCount"`
	SprayerCount   int  `json:"sprayerCount"`
	AccessoryCount int  `json:"accessoryCount"`
}

// DeriveFacts computes build facts from the request list without walking any BOM tree.
func DeriveFacts(req BuildRequest, basins BasinCatalog) Facts {
	var facts Facts
	for _, item := range req.Items {
		switch item.Role {
		case RolePegboard:
			facts.HasPegboard = true
		case RoleDrawer:
			facts.HasDrawers = true
		case RoleBasinType:
			facts.BasinCount++
			if bt, err := basins.BasinType(item.ID); err == nil {
				switch bt.Kind {
				case catalog.BasinKindEDrain:
					facts.HasEDrainBasin = true
				case catalog.BasinKindESink:
					facts.HasESinkBasin = true
				case catalog.BasinKindESinkDI:
					facts.HasESinkBasin = true
					facts.HasDIBasin = true
				}
			}
		case RoleBasinSize:
			if item.Custom != nil {
				facts.HasCustomBasin = true
			}
		case RoleFaucet:
			facts.FaucetCount += item.Quantity
		case RoleSprayer:
			facts.SprayerCount += item.Quantity
		case RoleAccessory:
			facts.AccessoryCount += item.Quantity
		}
	}
	return facts
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
