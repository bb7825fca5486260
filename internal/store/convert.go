package store

import (
	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/model"
)

type catalogRows struct {
	parts         []model.Part
	assemblies    []model.Assembly
	assemblyIDs   []string
	components    []model.AssemblyComponent
	compat        []model.ModelCompatibility
	models        []model.SinkModel
	basinTypes    []model.BasinType
	pegboardTypes []model.PegboardType
}

func fromDefinition(def *catalog.Definition) catalogRows {
	var rows catalogRows
	for _, p := range def.Parts {
		rows.parts = append(rows.parts, model.Part{
			ID:                     p.ID,
			Name:                   p.Name,
			Type:                   string(p.Type),
			Status:                 string(p.Status),
			CategoryCode:           p.CategoryCode,
			ManufacturerName:       p.ManufacturerName,
			ManufacturerPartNumber: p.ManufacturerPartNumber,
			RequiresSerialTracking: p.RequiresSerialTracking,
			IsOutsourced:           p.IsOutsourced,
		})
	}

	for _, a := range def.Assemblies {
		rows.assemblies = append(rows.assemblies, model.Assembly{
			ID:                     a.ID,
			Name:                   a.Name,
			Type:                   string(a.Type),
			Status:                 string(a.Status),
			CategoryCode:           a.CategoryCode,
			SubcategoryCode:        a.SubcategoryCode,
			RequiresSerialTracking: a.RequiresSerialTracking,
			IsOutsourced:           a.IsOutsourced,
		})
		rows.assemblyIDs = append(rows.assemblyIDs, a.ID)
		for i, c := range a.Components {
			rows.components = append(rows.components, model.AssemblyComponent{
				AssemblyID:      a.ID,
				Position:        i,
				PartID:          optional(c.PartID),
				ChildAssemblyID: optional(c.AssemblyID),
				Quantity:        c.Quantity,
				Notes:           c.Notes,
			})
		}
		for _, m := range a.CompatibleModels {
			rows.compat = append(rows.compat, model.ModelCompatibility{AssemblyID: a.ID, ModelID: m})
		}
	}

	for _, m := range def.Models {
		rows.models = append(rows.models, model.SinkModel{
			ID:        m.ID,
			Name:      m.Name,
			MinWidth:  m.MinWidth,
			MaxWidth:  m.MaxWidth,
			MinLength: m.MinLength,
			MaxLength: m.MaxLength,
			MaxBasins: m.MaxBasins,
		})
	}
	for _, b := range def.BasinTypes {
		rows.basinTypes = append(rows.basinTypes, model.BasinType{ID: b.ID, Name: b.Name, Kind: string(b.Kind)})
	}
	for _, p := range def.PegboardTypes {
		rows.pegboardTypes = append(rows.pegboardTypes, model.PegboardType{Code: p.Code, Name: p.Name})
	}
	return rows
}

func toDefinition(
	parts []model.Part,
	assemblies []model.Assembly,
	components []model.AssemblyComponent,
	compat []model.ModelCompatibility,
	models []model.SinkModel,
	basinTypes []model.BasinType,
	pegboardTypes []model.PegboardType,
) *catalog.Definition {
	def := &catalog.Definition{}

	for _, p := range parts {
		def.Parts = append(def.Parts, catalog.Part{
			ID:                     p.ID,
			Name:                   p.Name,
			Type:                   catalog.PartType(p.Type),
			Status:                 catalog.Status(p.Status),
			CategoryCode:           p.CategoryCode,
			ManufacturerName:       p.ManufacturerName,
			ManufacturerPartNumber: p.ManufacturerPartNumber,
			RequiresSerialTracking: p.RequiresSerialTracking,
			IsOutsourced:           p.IsOutsourced,
		})
	}

	byAssembly := make(map[string][]catalog.ComponentDef)
	for _, c := range components {
		byAssembly[c.AssemblyID] = append(byAssembly[c.AssemblyID], catalog.ComponentDef{
			PartID:     deref(c.PartID),
			AssemblyID: deref(c.ChildAssemblyID),
			Quantity:   c.Quantity,
			Notes:      c.Notes,
		})
	}
	compatByAssembly := make(map[string][]string)
	for _, c := range compat {
		compatByAssembly[c.AssemblyID] = append(compatByAssembly[c.AssemblyID], c.ModelID)
	}

	for _, a := range assemblies {
		def.Assemblies = append(def.Assemblies, catalog.AssemblyDef{
			ID:                     a.ID,
			Name:                   a.Name,
			Type:                   catalog.AssemblyType(a.Type),
			Status:                 catalog.Status(a.Status),
			CategoryCode:           a.CategoryCode,
			SubcategoryCode:        a.SubcategoryCode,
			RequiresSerialTracking: a.RequiresSerialTracking,
			IsOutsourced:           a.IsOutsourced,
			CompatibleModels:       compatByAssembly[a.ID],
			Components:             byAssembly[a.ID],
		})
	}

	for _, m := range models {
		def.Models = append(def.Models, catalog.SinkModel{
			ID:        m.ID,
			Name:      m.Name,
			MinWidth:  m.MinWidth,
			MaxWidth:  m.MaxWidth,
			MinLength: m.MinLength,
			MaxLength: m.MaxLength,
			MaxBasins: m.MaxBasins,
		})
	}
	for _, b := range basinTypes {
		def.BasinTypes = append(def.BasinTypes, catalog.BasinType{ID: b.ID, Name: b.Name, Kind: catalog.BasinKind(b.Kind)})
	}
	for _, p := range pegboardTypes {
		def.PegboardTypes = append(def.PegboardTypes, catalog.PegboardType{Code: p.Code, Name: p.Name})
	}
	return def
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
