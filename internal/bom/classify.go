package bom

import (
	"strings"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/resolve"
)

// Manufacturing types.
const (
	MfgAssemblyKit      = "ASSEMBLY_KIT"
	MfgComplexAssembly  = "COMPLEX_ASSEMBLY"
	MfgSimpleAssembly   = "SIMPLE_ASSEMBLY"
	MfgManufacturedPart = "MANUFACTURED_PART"
	MfgPurchasedPart    = "PURCHASED_PART"
	MfgComponent        = "COMPONENT"
)

// Procurement types.
const (
	ProcExternalPurchase    = "EXTERNAL_PURCHASE"
	ProcInternalManufacture = "INTERNAL_MANUFACTURE"
	ProcAssembly            = "ASSEMBLY"
)

// Criticality tags and priorities.
const (
	TagElectronic         = "ELECTRONIC"
	TagBasinComponent     = "BASIN_COMPONENT"
	TagStructural         = "STRUCTURAL"
	TagExternalDependency = "EXTERNAL_DEPENDENCY"

	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
)

// Rule tags an item when its predicate matches.
type Rule struct {
	Tag       string
	Predicate func(FlatItem) bool
}

// ClassifierOptions configures the provisional classification policy.
type ClassifierOptions struct {
	InternalPrefixes   []string
	ElectronicKeywords []string
	StructuralKeywords []string
	BasinCategories    []string
}

// DefaultClassifierOptions returns the policy used when config leaves a list empty.
func DefaultClassifierOptions() ClassifierOptions {
	return ClassifierOptions{
		InternalPrefixes: []string{"T2-"},
		ElectronicKeywords: []string{
			"CONTROL", "SENSOR", "ELECTRONIC", "PCB", "MOTOR", "POWER",
			"CABLE", "SWITCH", "LED", "SOLENOID", "LIFT", "HANDSET",
		},
		StructuralKeywords: []string{"FRAME", "LEG", "BRACE", "STRUCTURAL", "CHASSIS", "BRACKET"},
		BasinCategories:    []string{resolve.CategoryBasin, resolve.CategoryBasinSize, "BASIN_ADDON"},
	}
}

// Classifier derives manufacturing, procurement and criticality annotations.
type Classifier struct {
	prefixes []string
	rules    []Rule
}

// NewClassifier builds the rule table from opts, falling back to the defaults per list.
func NewClassifier(opts ClassifierOptions) *Classifier {
	def := DefaultClassifierOptions()
	if len(opts.InternalPrefixes) == 0 {
		opts.InternalPrefixes = def.InternalPrefixes
	}
	if len(opts.ElectronicKeywords) == 0 {
		opts.ElectronicKeywords = def.ElectronicKeywords
	}
	if len(opts.StructuralKeywords) == 0 {
		opts.StructuralKeywords = def.StructuralKeywords
	}
	if len(opts.BasinCategories) == 0 {
		opts.BasinCategories = def.BasinCategories
	}

	return &Classifier{
		prefixes: opts.InternalPrefixes,
		rules: []Rule{
			{Tag: TagElectronic, Predicate: keywordMatch(opts.ElectronicKeywords)},
			{Tag: TagBasinComponent, Predicate: categoryIn(opts.BasinCategories)},
			{Tag: TagStructural, Predicate: keywordMatch(opts.StructuralKeywords)},
			{Tag: TagExternalDependency, Predicate: isServicePart},
		},
	}
}

// Rules returns a copy of the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classification is the annotation set for one item.
type Classification struct {
	ManufacturingType string
	ProcurementType   string
	CriticalityTags   []string
	Priority          string
}

// Classify evaluates one item.
func (c *Classifier) Classify(it FlatItem) Classification {
	tags := []string{}
	for _, r := range c.rules {
		if r.Predicate(it) {
			tags = append(tags, r.Tag)
		}
	}
	return Classification{
		ManufacturingType: ManufacturingType(it),
		ProcurementType:   c.ProcurementType(it),
		CriticalityTags:   tags,
		Priority:          priority(tags),
	}
}

// Annotate returns a classified copy of items; the input is left unchanged.
func (c *Classifier) Annotate(items []FlatItem) []FlatItem {
	out := make([]FlatItem, len(items))
	for i, it := range items {
		cl := c.Classify(it)
		it.ManufacturingType = cl.ManufacturingType
		it.ProcurementType = cl.ProcurementType
		it.CriticalityTags = cl.CriticalityTags
		it.Priority = cl.Priority
		out[i] = it
	}
	return out
}

// ManufacturingType maps the item type, then the category, to a manufacturing type.
func ManufacturingType(it FlatItem) string {
	switch it.ItemType {
	case string(catalog.AssemblyTypeKit):
		return MfgAssemblyKit
	case string(catalog.AssemblyTypeComplex):
		return MfgComplexAssembly
	case string(catalog.AssemblyTypeSimple):
		return MfgSimpleAssembly
	}
	if it.Category == catalog.DefaultPartCategory {
		return MfgManufacturedPart
	}
	if it.ItemType == string(catalog.PartTypeServicePart) {
		return MfgPurchasedPart
	}
	return MfgComponent
}

// ProcurementType decides whether an item is bought, made or assembled.
func (c *Classifier) ProcurementType(it FlatItem) string {
	if it.ItemType == string(catalog.PartTypeServicePart) {
		return ProcExternalPurchase
	}
	if it.Category == catalog.DefaultPartCategory {
		for _, p := range c.prefixes {
			if strings.HasPrefix(it.ID, p) {
				return ProcInternalManufacture
			}
		}
		return ProcExternalPurchase
	}
	return ProcAssembly
}

func priority(tags []string) string {
	for _, t := range tags {
		if t == TagElectronic {
			return PriorityCritical
		}
	}
	if len(tags) > 0 {
		return PriorityHigh
	}
	return ""
}

func keywordMatch(keywords []string) func(FlatItem) bool {
	upper := make([]string, len(keywords))
	for i, k := range keywords {
		upper[i] = strings.ToUpper(k)
	}
	return func(it FlatItem) bool {
		name := strings.ToUpper(it.Name)
		cat := strings.ToUpper(it.Category)
		for _, k := range upper {
			if strings.Contains(name, k) || strings.Contains(cat, k) {
				return true
			}
		}
		return false
	}
}

func categoryIn(categories []string) func(FlatItem) bool {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[strings.ToUpper(c)] = struct{}{}
	}
	return func(it FlatItem) bool {
		_, ok := set[strings.ToUpper(it.Category)]
		return ok
	}
}

func isServicePart(it FlatItem) bool {
	return it.ItemType == string(catalog.PartTypeServicePart)
}

// Summary counts flattened items per classification.
type Summary struct {
	ByManufacturingType map[string]int `json:"byManufacturingType"`
	ByProcurementType   map[string]int `json:"byProcurementType"`
	ByPriority          map[string]int `json:"byPriority"`
	CustomItems         int            `json:"customItems"`
	UnresolvedItems     int            `json:"unresolvedItems"`
}

// Summarize reduces annotated items to a Summary.
func Summarize(items []FlatItem) Summary {
	s := Summary{
		ByManufacturingType: make(map[string]int),
		ByProcurementType:   make(map[string]int),
		ByPriority:          make(map[string]int),
	}
	for _, it := range items {
		s.ByManufacturingType[it.ManufacturingType]++
		s.ByProcurementType[it.ProcurementType]++
		if it.Priority != "" {
			s.ByPriority[it.Priority]++
		}
		if it.IsCustom {
			s.CustomItems++
		}
		if it.Kind == KindUnresolved {
			s.UnresolvedItems++
		}
	}
	return s
}
