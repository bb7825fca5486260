package bom

import "sink-bom-backend/internal/parse"

// Kind says what a node was resolved to.
type Kind string

const (
	KindPart       Kind = "PART"
	KindAssembly   Kind = "ASSEMBLY"
	KindCustom     Kind = "CUSTOM"
	KindUnresolved Kind = "UNRESOLVED"
)

// CategoryMiscellaneous is used when neither an override nor a catalog category applies.
const CategoryMiscellaneous = "MISCELLANEOUS"

// Node is one position in the BOM tree. Quantity is already multiplied by every
// ancestor quantity.
type Node struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Quantity         int               `json:"quantity"`
	ItemType         string            `json:"itemType"`
	Kind             Kind              `json:"kind"`
	IsCustom         bool              `json:"isCustom"`
	CustomDimensions *parse.Dimensions `json:"customDimensions,omitempty"`
	Dimensions       *parse.Dimensions `json:"dimensions,omitempty"`
	Source           string            `json:"source,omitempty"`
	Fault            FaultCode         `json:"fault,omitempty"`
	Children         []Node            `json:"children"`
}

// FaultCode identifies a structural fault that cut a branch short.
type FaultCode string

const (
	FaultCircularReference FaultCode = "CIRCULAR_REFERENCE"
	FaultDepthExceeded     FaultCode = "DEPTH_EXCEEDED"
	FaultQuantityOverflow  FaultCode = "QUANTITY_OVERFLOW"
)

// Fault is recorded for a branch that could not be expanded.
type Fault struct {
	Code    FaultCode `json:"code"`
	ID      string    `json:"id"`
	Path    []string  `json:"path"`
	Message string    `json:"message"`
}

// WarningCode identifies a resolution warning.
type WarningCode string

const (
	WarningCustomDimensions  WarningCode = "CUSTOM_DIMENSIONS_PENDING_APPROVAL"
	WarningUnresolvedID      WarningCode = "UNRESOLVED_ID"
	WarningInactiveItem      WarningCode = "INACTIVE_ITEM"
	WarningUnparsedBasinSize WarningCode = "UNPARSED_BASIN_SIZE"
)

// Warning flags a node that was resolved but needs attention.
type Warning struct {
	Code    WarningCode `json:"code"`
	ID      string      `json:"id"`
	Path    []string    `json:"path"`
	Message string      `json:"message"`
}

// Walk visits nodes in pre-order, passing the depth of each node.
func Walk(nodes []Node, fn func(n Node, depth int)) {
	var walk func(list []Node, depth int)
	walk = func(list []Node, depth int) {
		for i := range list {
			fn(list[i], depth)
			walk(list[i].Children, depth+1)
		}
	}
	walk(nodes, 0)
}
