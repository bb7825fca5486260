package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by lookups for ids that are not in the snapshot.
var ErrNotFound = errors.New("catalog: not found")

// IntegrityError lists every problem found while loading a catalog definition.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity check failed (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Snapshot is an immutable, validated catalog. All lookups are map reads and are safe
// for concurrent use.
type Snapshot struct {
	version       string
	loadedAt      time.Time
	parts         map[string]*Part
	assemblies    map[string]*Assembly
	models        map[string]*SinkModel
	basinTypes    map[string]*BasinType
	pegboardTypes map[string]*PegboardType
	components    int
}

// New validates a definition and builds a snapshot from it. A definition containing a
// component with both or neither child reference, an unknown reference, or a cycle is
// rejected with an *IntegrityError.
func New(def *Definition) (*Snapshot, error) {
	if def == nil {
		return nil, &IntegrityError{Problems: []string{"definition is nil"}}
	}

	s := &Snapshot{
		version:       uuid.NewString(),
		loadedAt:      time.Now().UTC(),
		parts:         make(map[string]*Part, len(def.Parts)),
		assemblies:    make(map[string]*Assembly, len(def.Assemblies)),
		models:        make(map[string]*SinkModel, len(def.Models)),
		basinTypes:    make(map[string]*BasinType, len(def.BasinTypes)),
		pegboardTypes: make(map[string]*PegboardType, len(def.PegboardTypes)),
	}
	var problems []string

	for i := range def.Parts {
		p := def.Parts[i]
		if p.ID == "" {
			problems = append(problems, fmt.Sprintf("part #%d has no id", i))
			continue
		}
		if _, dup := s.parts[p.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate part id %q", p.ID))
			continue
		}
		if p.CategoryCode == "" {
			p.CategoryCode = DefaultPartCategory
		}
		if p.Type == "" {
			p.Type = PartTypeComponent
		}
		if p.Status == "" {
			p.Status = StatusActive
		}
		s.parts[p.ID] = &p
	}

	accepted := make(map[string]int, len(def.Assemblies))
	for i, a := range def.Assemblies {
		if a.ID == "" {
			problems = append(problems, fmt.Sprintf("assembly #%d has no id", i))
			continue
		}
		if _, dup := s.assemblies[a.ID]; dup {
			problems = append(problems, fmt.Sprintf("duplicate assembly id %q", a.ID))
			continue
		}
		if _, clash := s.parts[a.ID]; clash {
			problems = append(problems, fmt.Sprintf("id %q is declared as both a part and an assembly", a.ID))
			continue
		}
		accepted[a.ID] = i
		status := a.Status
		if status == "" {
			status = StatusActive
		}
		s.assemblies[a.ID] = &Assembly{
			ID:                     a.ID,
			Name:                   a.Name,
			Type:                   a.Type,
			Status:                 status,
			CategoryCode:           a.CategoryCode,
			SubcategoryCode:        a.SubcategoryCode,
			RequiresSerialTracking: a.RequiresSerialTracking,
			IsOutsourced:           a.IsOutsourced,
			CompatibleModels:       append([]string(nil), a.CompatibleModels...),
		}
	}

	// Components are resolved once every id is known so forward references work.
	for i, a := range def.Assemblies {
		if idx, ok := accepted[a.ID]; !ok || idx != i {
			continue
		}
		asm := s.assemblies[a.ID]
		for j, c := range a.Components {
			ref, err := s.resolveRef(c)
			if err != nil {
				problems = append(problems, fmt.Sprintf("assembly %q component #%d: %v", a.ID, j, err))
				continue
			}
			if c.Quantity <= 0 {
				problems = append(problems, fmt.Sprintf("assembly %q component #%d (%s): quantity must be positive, got %d", a.ID, j, ref.ID, c.Quantity))
				continue
			}
			asm.Components = append(asm.Components, Component{Child: ref, Quantity: c.Quantity, Notes: c.Notes})
			s.components++
		}
	}

	for i := range def.Models {
		m := def.Models[i]
		if !s.has(m.ID) {
			problems = append(problems, fmt.Sprintf("model %q does not reference a known part or assembly", m.ID))
			continue
		}
		if m.MaxWidth > 0 && m.MinWidth > m.MaxWidth {
			problems = append(problems, fmt.Sprintf("model %q: minWidth %g exceeds maxWidth %g", m.ID, m.MinWidth, m.MaxWidth))
		}
		if m.MaxLength > 0 && m.MinLength > m.MaxLength {
			problems = append(problems, fmt.Sprintf("model %q: minLength %g exceeds maxLength %g", m.ID, m.MinLength, m.MaxLength))
		}
		s.models[m.ID] = &m
	}

	for i := range def.BasinTypes {
		b := def.BasinTypes[i]
		if _, ok := s.assemblies[b.ID]; !ok {
			problems = append(problems, fmt.Sprintf("basin type %q does not reference a known assembly", b.ID))
			continue
		}
		s.basinTypes[b.ID] = &b
	}

	for i := range def.PegboardTypes {
		pt := def.PegboardTypes[i]
		if pt.Code == "" {
			problems = append(problems, fmt.Sprintf("pegboard type #%d has no code", i))
			continue
		}
		s.pegboardTypes[pt.Code] = &pt
	}

	for _, cycle := range s.findCycles() {
		problems = append(problems, fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}

	if len(problems) > 0 {
		return nil, &IntegrityError{Problems: problems}
	}
	return s, nil
}

func (s *Snapshot) resolveRef(c ComponentDef) (ChildRef, error) {
	switch {
	case c.PartID != "" && c.AssemblyID != "":
		return ChildRef{}, fmt.Errorf("references both part %q and assembly %q", c.PartID, c.AssemblyID)
	case c.PartID == "" && c.AssemblyID == "":
		return ChildRef{}, errors.New("references neither a part nor an assembly")
	case c.PartID != "":
		if _, ok := s.parts[c.PartID]; !ok {
			return ChildRef{}, fmt.Errorf("unknown part %q", c.PartID)
		}
		return PartRef(c.PartID), nil
	default:
		if _, ok := s.assemblies[c.AssemblyID]; !ok {
			return ChildRef{}, fmt.Errorf("unknown assembly %q", c.AssemblyID)
		}
		return AssemblyRef(c.AssemblyID), nil
	}
}

// findCycles runs a three-color DFS over the assembly graph and returns every back edge
// as the path from the repeated assembly back to itself. Assemblies are visited in sorted
// order so the report is stable.
func (s *Snapshot) findCycles() [][]string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(s.assemblies))
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)
		for _, c := range s.assemblies[id].Components {
			if c.Child.Kind != ChildAssembly {
				continue
			}
			switch color[c.Child.ID] {
			case white:
				visit(c.Child.ID)
			case gray:
				start := indexOf(stack, c.Child.ID)
				cycle := append(append([]string(nil), stack[start:]...), c.Child.ID)
				cycles = append(cycles, cycle)
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	ids := make([]string, 0, len(s.assemblies))
	for id := range s.assemblies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return 0
}

func (s *Snapshot) has(id string) bool {
	if _, ok := s.parts[id]; ok {
		return true
	}
	_, ok := s.assemblies[id]
	return ok
}

// Version uniquely identifies this snapshot instance.
func (s *Snapshot) Version() string { return s.version }

// LoadedAt is the time the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Part looks up a part by id.
func (s *Snapshot) Part(id string) (*Part, error) {
	if p, ok := s.parts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("part %q: %w", id, ErrNotFound)
}

// Assembly looks up an assembly by id.
func (s *Snapshot) Assembly(id string) (*Assembly, error) {
	if a, ok := s.assemblies[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("assembly %q: %w", id, ErrNotFound)
}

// Components returns the ordered component lines of an assembly.
func (s *Snapshot) Components(assemblyID string) ([]Component, error) {
	a, err := s.Assembly(assemblyID)
	if err != nil {
		return nil, err
	}
	return a.Components, nil
}

// Model looks up a sink model by id.
func (s *Snapshot) Model(id string) (*SinkModel, error) {
	if m, ok := s.models[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("model %q: %w", id, ErrNotFound)
}

// BasinType looks up a basin type by id.
func (s *Snapshot) BasinType(id string) (*BasinType, error) {
	if b, ok := s.basinTypes[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("basin type %q: %w", id, ErrNotFound)
}

// PegboardType looks up a pegboard type by code.
func (s *Snapshot) PegboardType(code string) (*PegboardType, error) {
	if p, ok := s.pegboardTypes[code]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("pegboard type %q: %w", code, ErrNotFound)
}

// Has reports whether id is a known part or assembly.
func (s *Snapshot) Has(id string) bool { return s.has(id) }

// StatusOf returns the lifecycle status of a part or assembly.
func (s *Snapshot) StatusOf(id string) (Status, bool) {
	if p, ok := s.parts[id]; ok {
		return p.Status, true
	}
	if a, ok := s.assemblies[id]; ok {
		return a.Status, true
	}
	return "", false
}

// Stats returns the entry counts of the snapshot.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Version:       s.version,
		Parts:         len(s.parts),
		Assemblies:    len(s.assemblies),
		Components:    s.components,
		Models:        len(s.models),
		BasinTypes:    len(s.basinTypes),
		PegboardTypes: len(s.pegboardTypes),
	}
}
