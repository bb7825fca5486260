package bom

import (
	"fmt"
	"math"
	"strings"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/parse"
	"sink-bom-backend/internal/resolve"
)

// DefaultMaxDepth bounds expansion against malformed catalog data.
const DefaultMaxDepth = 64

// Source is the read-only catalog view the builder expands against.
type Source interface {
	Part(id string) (*catalog.Part, error)
	Assembly(id string) (*catalog.Assembly, error)
	Components(assemblyID string) ([]catalog.Component, error)
}

// Tree is the output of one build: the top-level nodes plus everything noted on the way.
type Tree struct {
	Nodes    []Node
	Warnings []Warning
	Faults   []Fault
}

// Builder expands request lists into BOM trees.
type Builder struct {
	src      Source
	maxDepth int
}

// NewBuilder creates a builder. A non-positive maxDepth selects DefaultMaxDepth.
func NewBuilder(src Source, maxDepth int) *Builder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Builder{src: src, maxDepth: maxDepth}
}

// expansion holds the per-call state of one Build so builders stay shareable.
type expansion struct {
	b        *Builder
	path     []string
	onPath   map[string]int
	warnings []Warning
	faults   []Fault
}

// Build expands every requested item, in request order. Missing ids become unresolved
// leaves and structural faults stop only the branch they occur in.
func (b *Builder) Build(items []resolve.RequestItem) Tree {
	e := &expansion{b: b, onPath: make(map[string]int)}
	nodes := make([]Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, e.top(item))
	}
	return Tree{Nodes: nodes, Warnings: nonNilWarnings(e.warnings), Faults: nonNilFaults(e.faults)}
}

func (e *expansion) top(item resolve.RequestItem) Node {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}

	if part, err := e.b.src.Part(item.ID); err == nil {
		n := e.partNode(part, qty)
		n.Category = categorize(item.Category, part.CategoryCode)
		n.Source = item.Source
		n.Dimensions = e.basinDimensions(item)
		return n
	}
	if asm, err := e.b.src.Assembly(item.ID); err == nil {
		n := e.assemblyNode(asm, qty, 0)
		n.Category = categorize(item.Category, asm.CategoryCode)
		n.Source = item.Source
		n.Dimensions = e.basinDimensions(item)
		return n
	}

	dims := item.Custom
	if dims == nil {
		if d, ok := parse.ParseCustomBasinID(item.ID); ok {
			dims = &d
		}
	}
	if dims != nil {
		n := Node{
			ID:               item.ID,
			Name:             "Custom basin " + dims.String(),
			Category:         categorize(item.Category, resolve.CategoryBasinSize),
			Quantity:         qty,
			ItemType:         string(KindCustom),
			Kind:             KindCustom,
			IsCustom:         true,
			CustomDimensions: dims,
			Dimensions:       dims,
			Source:           item.Source,
			Children:         []Node{},
		}
		e.warn(WarningCustomDimensions, item.ID, "custom basin %s requires approval before production", dims.String())
		return n
	}

	n := e.unresolvedNode(item.ID, qty)
	n.Category = categorize(item.Category, "")
	n.Source = item.Source
	return n
}

// basinDimensions reads the measurements encoded in a catalog basin size part number.
// Sizes that do not follow the naming scheme get a warning and no dimensions.
func (e *expansion) basinDimensions(item resolve.RequestItem) *parse.Dimensions {
	if item.Category != resolve.CategoryBasinSize {
		return nil
	}
	d, err := parse.ParseBasinSize(item.ID)
	if err != nil {
		e.warn(WarningUnparsedBasinSize, item.ID, "%v", err)
		return nil
	}
	return &d
}

func (e *expansion) partNode(p *catalog.Part, qty int) Node {
	e.checkStatus(p.ID, p.Status)
	return Node{
		ID:       p.ID,
		Name:     p.Name,
		Category: categorize("", p.CategoryCode),
		Quantity: qty,
		ItemType: string(p.Type),
		Kind:     KindPart,
		Children: []Node{},
	}
}

func (e *expansion) assemblyNode(a *catalog.Assembly, qty, depth int) Node {
	e.checkStatus(a.ID, a.Status)
	n := Node{
		ID:       a.ID,
		Name:     a.Name,
		Category: categorize("", a.CategoryCode),
		Quantity: qty,
		ItemType: string(a.Type),
		Kind:     KindAssembly,
		Children: []Node{},
	}

	if _, cyclic := e.onPath[a.ID]; cyclic {
		n.Fault = FaultCircularReference
		e.fault(FaultCircularReference, a.ID, "assembly %s contains itself", a.ID)
		return n
	}
	if depth >= e.b.maxDepth {
		n.Fault = FaultDepthExceeded
		e.fault(FaultDepthExceeded, a.ID, "expansion of %s exceeds the depth limit of %d", a.ID, e.b.maxDepth)
		return n
	}

	comps, err := e.b.src.Components(a.ID)
	if err != nil {
		e.warn(WarningUnresolvedID, a.ID, "components of %s could not be read: %v", a.ID, err)
		return n
	}

	e.onPath[a.ID] = len(e.path)
	e.path = append(e.path, a.ID)
	for _, c := range comps {
		n.Children = append(n.Children, e.child(c, qty, depth+1))
	}
	e.path = e.path[:len(e.path)-1]
	delete(e.onPath, a.ID)

	return n
}

func (e *expansion) child(c catalog.Component, parentQty, depth int) Node {
	qty, ok := mulQty(c.Quantity, parentQty)
	if !ok {
		return e.overflowNode(c, parentQty)
	}
	switch c.Child.Kind {
	case catalog.ChildPart:
		p, err := e.b.src.Part(c.Child.ID)
		if err == nil {
			return e.partNode(p, qty)
		}
	case catalog.ChildAssembly:
		a, err := e.b.src.Assembly(c.Child.ID)
		if err == nil {
			return e.assemblyNode(a, qty, depth)
		}
	}
	n := e.unresolvedNode(c.Child.ID, qty)
	n.Category = categorize("", "")
	return n
}

// overflowNode stands in for a child whose total quantity does not fit in an int. The
// branch is not expanded.
func (e *expansion) overflowNode(c catalog.Component, parentQty int) Node {
	n := Node{
		ID:       c.Child.ID,
		Name:     c.Child.ID,
		Category: CategoryMiscellaneous,
		ItemType: string(KindUnresolved),
		Kind:     KindUnresolved,
		Fault:    FaultQuantityOverflow,
		Children: []Node{},
	}
	switch c.Child.Kind {
	case catalog.ChildPart:
		if p, err := e.b.src.Part(c.Child.ID); err == nil {
			n.Name, n.Category, n.ItemType, n.Kind = p.Name, categorize("", p.CategoryCode), string(p.Type), KindPart
		}
	case catalog.ChildAssembly:
		if a, err := e.b.src.Assembly(c.Child.ID); err == nil {
			n.Name, n.Category, n.ItemType, n.Kind = a.Name, categorize("", a.CategoryCode), string(a.Type), KindAssembly
		}
	}
	e.fault(FaultQuantityOverflow, c.Child.ID, "quantity of %s overflows: %d per parent x %d parents", c.Child.ID, c.Quantity, parentQty)
	return n
}

// mulQty multiplies two quantities, reporting false when the product overflows.
func mulQty(a, b int) (int, bool) {
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

func (e *expansion) unresolvedNode(id string, qty int) Node {
	e.warn(WarningUnresolvedID, id, "%s is not in the catalog", id)
	return Node{
		ID:       id,
		Name:     id,
		Quantity: qty,
		ItemType: string(KindUnresolved),
		Kind:     KindUnresolved,
		Children: []Node{},
	}
}

func (e *expansion) checkStatus(id string, status catalog.Status) {
	if status != "" && status != catalog.StatusActive {
		e.warn(WarningInactiveItem, id, "%s is %s", id, strings.ToLower(string(status)))
	}
}

func (e *expansion) currentPath(id string) []string {
	path := make([]string, 0, len(e.path)+1)
	path = append(path, e.path...)
	return append(path, id)
}

func (e *expansion) warn(code WarningCode, id, format string, args ...any) {
	e.warnings = append(e.warnings, Warning{Code: code, ID: id, Path: e.currentPath(id), Message: fmt.Sprintf(format, args...)})
}

func (e *expansion) fault(code FaultCode, id, format string, args ...any) {
	e.faults = append(e.faults, Fault{Code: code, ID: id, Path: e.currentPath(id), Message: fmt.Sprintf(format, args...)})
}

func nonNilWarnings(w []Warning) []Warning {
	if w == nil {
		return []Warning{}
	}
	return w
}

func nonNilFaults(f []Fault) []Fault {
	if f == nil {
		return []Fault{}
	}
	return f
}
