package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/order"
)

// Code classifies a validation issue.
type Code string

const (
	CodeRequired        Code = "REQUIRED"
	CodeOutOfRange      Code = "OUT_OF_RANGE"
	CodeIncompatible    Code = "INCOMPATIBLE"
	CodeUnknownID       Code = "UNKNOWN_ID"
	CodeInvalid         Code = "INVALID"
	CodePendingApproval Code = "PENDING_APPROVAL"
	CodeInactiveItem    Code = "INACTIVE_ITEM"
)

// Issue is a single field-tagged error or warning.
type Issue struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Result is the complete outcome of validating one configuration.
type Result struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Catalog is the subset of the catalog snapshot the validator reads.
type Catalog interface {
	Model(id string) (*catalog.SinkModel, error)
	Assembly(id string) (*catalog.Assembly, error)
	BasinType(id string) (*catalog.BasinType, error)
	PegboardType(code string) (*catalog.PegboardType, error)
	Has(id string) bool
	StatusOf(id string) (catalog.Status, bool)
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so issues line up with the submitted payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

type collector struct {
	cat      Catalog
	errors   []Issue
	warnings []Issue
}

func (c *collector) fail(field string, code Code, format string, args ...any) {
	c.errors = append(c.errors, Issue{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) warn(field string, code Code, format string, args ...any) {
	c.warnings = append(c.warnings, Issue{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration against the catalog. Every rule runs regardless of
// earlier failures so the caller receives the complete list of issues in one pass.
func Validate(cat Catalog, cfg *order.Configuration) Result {
	c := &collector{cat: cat}
	if cfg == nil {
		c.fail("", CodeRequired, "configuration is required")
		return c.result()
	}

	c.checkStruct(cfg)

	modelID := cfg.SinkSelection.SinkModelID
	var model *catalog.SinkModel
	if modelID != "" {
		m, err := cat.Model(modelID)
		if err != nil {
			c.fail("sinkSelection.sinkModelId", CodeUnknownID, "sink model %q is not in the catalog", modelID)
		} else {
			model = m
		}
	}

	builds := make(map[string]bool, len(cfg.SinkSelection.BuildNumbers))
	for _, bn := range cfg.SinkSelection.BuildNumbers {
		if bn == "" {
			continue
		}
		if builds[bn] {
			c.fail("sinkSelection.buildNumbers", CodeInvalid, "build number %q is listed more than once", bn)
			continue
		}
		builds[bn] = true

		build, ok := cfg.Configurations[bn]
		if !ok {
			c.fail(fmt.Sprintf("configurations[%s]", bn), CodeRequired, "build %s has no configuration", bn)
			continue
		}
		c.checkBuild(bn, modelID, model, build)
	}

	for _, bn := range sortedKeys(cfg.Configurations) {
		if !builds[bn] {
			c.warn(fmt.Sprintf("configurations[%s]", bn), CodeInvalid, "configuration for build %s is not listed in sinkSelection.buildNumbers and is ignored", bn)
		}
	}

	for _, bn := range sortedKeys(cfg.Accessories) {
		if !builds[bn] {
			c.warn(fmt.Sprintf("accessories[%s]", bn), CodeInvalid, "accessories for build %s are not listed in sinkSelection.buildNumbers and are ignored", bn)
			continue
		}
		for i, acc := range cfg.Accessories[bn] {
			c.checkKnown(fmt.Sprintf("accessories[%s][%d].assemblyId", bn, i), "accessory", acc.AssemblyID)
		}
	}

	return c.result()
}

func (c *collector) result() Result {
	return Result{
		IsValid:  len(c.errors) == 0,
		Errors:   nonNil(c.errors),
		Warnings: nonNil(c.warnings),
	}
}

func (c *collector) checkStruct(cfg *order.Configuration) {
	err := structValidator.Struct(cfg)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.fail("", CodeInvalid, "%v", err)
		return
	}
	// Map fields are walked in random order.
	start := len(c.errors)
	defer func() {
		issues := c.errors[start:]
		sort.SliceStable(issues, func(i, j int) bool {
			if issues[i].Field != issues[j].Field {
				return issues[i].Field < issues[j].Field
			}
			return issues[i].Message < issues[j].Message
		})
	}()
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch fe.Tag() {
		case "required":
			c.fail(field, CodeRequired, "%s is required", fe.Field())
		case "min":
			c.fail(field, CodeRequired, "%s must contain at least %s entries", fe.Field(), fe.Param())
		case "gte", "gt":
			c.fail(field, CodeOutOfRange, "%s must be %s %s", fe.Field(), fe.Tag(), fe.Param())
		default:
			c.fail(field, CodeInvalid, "%s failed the %q rule", fe.Field(), fe.Tag())
		}
	}
}

func (c *collector) checkBuild(bn, modelID string, model *catalog.SinkModel, b order.BuildConfiguration) {
	prefix := fmt.Sprintf("configurations[%s]", bn)

	if model != nil {
		c.checkDimension(prefix+".width", "width", b.Width, model.MinWidth, model.MaxWidth, model.ID)
		c.checkDimension(prefix+".length", "length", b.Length, model.MinLength, model.MaxLength, model.ID)
	} else {
		c.checkPositive(prefix+".width", "width", b.Width)
		c.checkPositive(prefix+".length", "length", b.Length)
	}

	if b.LegsTypeID != "" {
		field := prefix + ".legsTypeId"
		legs, err := c.cat.Assembly(b.LegsTypeID)
		switch {
		case err != nil:
			c.fail(field, CodeUnknownID, "legs type %q is not in the catalog", b.LegsTypeID)
		case model != nil && !legs.CompatibleWith(modelID):
			c.fail(field, CodeIncompatible, "legs type %s is not compatible with sink model %s", b.LegsTypeID, modelID)
		default:
			c.checkStatus(field, b.LegsTypeID)
		}
	}
	if b.FeetTypeID != "" {
		c.checkKnown(prefix+".feetTypeId", "feet type", b.FeetTypeID)
	}

	if b.Pegboard {
		field := prefix + ".pegboardTypeId"
		if b.PegboardTypeID == "" {
			c.fail(field, CodeRequired, "pegboardTypeId is required when pegboard is selected")
		} else if _, err := c.cat.PegboardType(strings.ToUpper(b.PegboardTypeID)); err != nil {
			c.fail(field, CodeUnknownID, "pegboard type %q is not in the catalog", b.PegboardTypeID)
		}
	}

	for i, id := range b.DrawersAndCompartments {
		c.checkKnown(fmt.Sprintf("%s.drawersAndCompartments[%d]", prefix, i), "drawer or compartment", id)
	}

	if model != nil && model.MaxBasins > 0 && len(b.Basins) > model.MaxBasins {
		c.fail(prefix+".basins", CodeOutOfRange, "sink model %s supports at most %d basins, got %d", model.ID, model.MaxBasins, len(b.Basins))
	}
	for i, basin := range b.Basins {
		c.checkBasin(fmt.Sprintf("%s.basins[%d]", prefix, i), i, basin)
	}

	for i, f := range b.Faucets {
		c.checkKnown(fmt.Sprintf("%s.faucets[%d].faucetTypeId", prefix, i), "faucet type", f.FaucetTypeID)
	}
	for i, s := range b.Sprayers {
		c.checkKnown(fmt.Sprintf("%s.sprayers[%d].sprayerTypeId", prefix, i), "sprayer type", s.SprayerTypeID)
	}
}

func (c *collector) checkBasin(prefix string, index int, b order.BasinSpec) {
	if b.BasinTypeID != "" {
		if _, err := c.cat.BasinType(b.BasinTypeID); err != nil {
			c.fail(prefix+".basinTypeId", CodeUnknownID, "basin type %q is not in the basin type catalog", b.BasinTypeID)
		}
	}

	switch {
	case b.IsCustom():
		dims := []struct {
			name string
			v    *float64
		}{{"customWidth", b.CustomWidth}, {"customLength", b.CustomLength}, {"customDepth", b.CustomDepth}}
		complete := true
		for _, d := range dims {
			if d.v == nil {
				c.fail(prefix+"."+d.name, CodeRequired, "%s is required for a custom basin size", d.name)
				complete = false
			} else if *d.v <= 0 {
				c.fail(prefix+"."+d.name, CodeOutOfRange, "%s must be positive, got %g", d.name, *d.v)
				complete = false
			}
		}
		if complete {
			c.warn(prefix+".basinSizePartNumber", CodePendingApproval,
				"basin %d uses custom dimensions %gx%gx%g which require approval", index+1, *b.CustomWidth, *b.CustomLength, *b.CustomDepth)
		}
	case b.BasinSizePartNumber != "":
		c.checkKnown(prefix+".basinSizePartNumber", "basin size", b.BasinSizePartNumber)
	}

	for i, id := range b.AddonIDs {
		c.checkKnown(fmt.Sprintf("%s.addonIds[%d]", prefix, i), "basin addon", id)
	}
}

func (c *collector) checkDimension(field, name string, v *float64, minV, maxV float64, modelID string) {
	if v == nil {
		return // reported by the struct rules
	}
	switch {
	case *v <= 0:
		c.fail(field, CodeOutOfRange, "%s must be positive, got %g", name, *v)
	case maxV > 0 && *v > maxV:
		c.fail(field, CodeOutOfRange, "%s %g exceeds the maximum of %g for model %s", name, *v, maxV, modelID)
	case minV > 0 && *v < minV:
		c.fail(field, CodeOutOfRange, "%s %g is below the minimum of %g for model %s", name, *v, minV, modelID)
	}
}

func (c *collector) checkPositive(field, name string, v *float64) {
	if v != nil && *v <= 0 {
		c.fail(field, CodeOutOfRange, "%s must be positive, got %g", name, *v)
	}
}

func (c *collector) checkKnown(field, what, id string) {
	if id == "" {
		return
	}
	if !c.cat.Has(id) {
		c.fail(field, CodeUnknownID, "%s %q is not in the catalog", what, id)
		return
	}
	c.checkStatus(field, id)
}

func (c *collector) checkStatus(field, id string) {
	if status, ok := c.cat.StatusOf(id); ok && status != catalog.StatusActive {
		c.warn(field, CodeInactiveItem, "%s is %s", id, strings.ToLower(string(status)))
	}
}

func nonNil(issues []Issue) []Issue {
	if issues == nil {
		return []Issue{}
	}
	return issues
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
