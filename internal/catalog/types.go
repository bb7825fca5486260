package catalog

// PartType classifies an atomic catalog part.
type PartType string

const (
	PartTypeComponent    PartType = "COMPONENT"
	PartTypeServicePart  PartType = "SERVICE_PART"
	PartTypeRawMaterial  PartType = "RAW_MATERIAL"
	PartTypeManufactured PartType = "MANUFACTURED"
)

// AssemblyType classifies how an assembly is built.
type AssemblyType string

const (
	AssemblyTypeKit         AssemblyType = "KIT"
	AssemblyTypeComplex     AssemblyType = "COMPLEX"
	AssemblyTypeSimple      AssemblyType = "SIMPLE"
	AssemblyTypeSystem      AssemblyType = "SYSTEM"
	AssemblyTypeServicePart AssemblyType = "SERVICE_PART"
)

// Status is the lifecycle state of a catalog entry.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
)

// DefaultPartCategory is assigned to parts declared without a category code.
const DefaultPartCategory = "PART"

// BasinKind distinguishes the basin families that downstream QC logic cares about.
type BasinKind string

const (
	BasinKindESink   BasinKind = "E_SINK"
	BasinKindESinkDI BasinKind = "E_SINK_DI"
	BasinKindEDrain  BasinKind = "E_DRAIN"
)

// Part is an atomic catalog entry with no further decomposition.
type Part struct {
	ID                     string   `yaml:"id" json:"partId"`
	Name                   string   `yaml:"name" json:"name"`
	Type                   PartType `yaml:"type" json:"type"`
	Status                 Status   `yaml:"status" json:"status"`
	CategoryCode           string   `yaml:"categoryCode" json:"categoryCode"`
	ManufacturerName       string   `yaml:"manufacturerName,omitempty" json:"manufacturerName,omitempty"`
	ManufacturerPartNumber string   `yaml:"manufacturerPartNumber,omitempty" json:"manufacturerPartNumber,omitempty"`
	RequiresSerialTracking bool     `yaml:"requiresSerialTracking" json:"requiresSerialTracking"`
	IsOutsourced           bool     `yaml:"isOutsourced" json:"isOutsourced"`
}

// ChildKind tags which side of a component reference is populated.
type ChildKind int

const (
	ChildPart ChildKind = iota + 1
	ChildAssembly
)

func (k ChildKind) String() string {
	switch k {
	case ChildPart:
		return "PART"
	case ChildAssembly:
		return "ASSEMBLY"
	default:
		return "UNKNOWN"
	}
}

// ChildRef points at exactly one child part or child assembly.
type ChildRef struct {
	Kind ChildKind `json:"kind"`
	ID   string    `json:"id"`
}

// PartRef returns a reference to a child part.
func PartRef(id string) ChildRef { return ChildRef{Kind: ChildPart, ID: id} }

// AssemblyRef returns a reference to a child assembly.
func AssemblyRef(id string) ChildRef { return ChildRef{Kind: ChildAssembly, ID: id} }

// Component is one line of an assembly: Quantity of Child per one unit of the parent.
type Component struct {
	Child    ChildRef `json:"child"`
	Quantity int      `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
}

// Assembly is a catalog entry composed of child parts and assemblies.
type Assembly struct {
	ID                     string       `json:"assemblyId"`
	Name                   string       `json:"name"`
	Type                   AssemblyType `json:"type"`
	Status                 Status       `json:"status"`
	CategoryCode           string       `json:"categoryCode,omitempty"`
	SubcategoryCode        string       `json:"subcategoryCode,omitempty"`
	RequiresSerialTracking bool         `json:"requiresSerialTracking"`
	IsOutsourced           bool         `json:"isOutsourced"`
	CompatibleModels       []string     `json:"compatibleModels,omitempty"`
	Components             []Component  `json:"components"`
}

// CompatibleWith reports whether the assembly declares compatibility with a sink model.
// An empty declaration means the assembly fits every model.
func (a *Assembly) CompatibleWith(modelID string) bool {
	if len(a.CompatibleModels) == 0 {
		return true
	}
	for _, m := range a.CompatibleModels {
		if m == modelID {
			return true
		}
	}
	return false
}

// SinkModel holds the dimensional constraints of a sellable sink model.
type SinkModel struct {
	ID        string  `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	MinWidth  float64 `yaml:"minWidth" json:"minWidth"`
	MaxWidth  float64 `yaml:"maxWidth" json:"maxWidth"`
	MinLength float64 `yaml:"minLength" json:"minLength"`
	MaxLength float64 `yaml:"maxLength" json:"maxLength"`
	MaxBasins int     `yaml:"maxBasins" json:"maxBasins"`
}

// BasinType is an entry of the basin-type catalog.
type BasinType struct {
	ID   string    `yaml:"id" json:"id"`
	Name string    `yaml:"name" json:"name"`
	Kind BasinKind `yaml:"kind" json:"kind"`
}

// PegboardType is a selectable pegboard style.
type PegboardType struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Stats summarizes the size of a snapshot.
type Stats struct {
	Version       string `json:"version"`
	Parts         int    `json:"parts"`
	Assemblies    int    `json:"assemblies"`
	Components    int    `json:"components"`
	Models        int    `json:"models"`
	BasinTypes    int    `json:"basinTypes"`
	PegboardTypes int    `json:"pegboardTypes"`
}
