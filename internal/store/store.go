package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sink-bom-backend/internal/catalog"
	"sink-bom-backend/internal/model"
)

const batchSize = 100

// Store defines the interface for all catalog database operations.
type Store interface {
	LoadCatalog(ctx context.Context) (*catalog.Definition, error)
	ImportCatalog(ctx context.Context, def *catalog.Definition) (Counts, error)
	CatalogStats(ctx context.Context) (Counts, error)
}

// Counts is the number of rows per catalog table.
type Counts struct {
	Parts         int64 `json:"parts"`
	Assemblies    int64 `json:"assemblies"`
	Components    int64 `json:"components"`
	Models        int64 `json:"models"`
	BasinTypes    int64 `json:"basinTypes"`
	PegboardTypes int64 `json:"pegboardTypes"`
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// LoadCatalog reads every catalog table into an unvalidated definition. Components keep their
// stored position order.
func (s *gormStore) LoadCatalog(ctx context.Context) (*catalog.Definition, error) {
	db := s.db.WithContext(ctx)

	var parts []model.Part
	if err := db.Order("id").Find(&parts).Error; err != nil {
		return nil, fmt.Errorf("failed to load parts: %w", err)
	}
	var assemblies []model.Assembly
	if err := db.Order("id").Find(&assemblies).Error; err != nil {
		return nil, fmt.Errorf("failed to load assemblies: %w", err)
	}
	var components []model.AssemblyComponent
	if err := db.Order("assembly_id").Order("position").Find(&components).Error; err != nil {
		return nil, fmt.Errorf("failed to load assembly components: %w", err)
	}
	var compat []model.ModelCompatibility
	if err := db.Order("assembly_id").Order("model_id").Find(&compat).Error; err != nil {
		return nil, fmt.Errorf("failed to load model compatibility: %w", err)
	}
	var models []model.SinkModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load sink models: %w", err)
	}
	var basinTypes []model.BasinType
	if err := db.Order("id").Find(&basinTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to load basin types: %w", err)
	}
	var pegboardTypes []model.PegboardType
	if err := db.Order("code").Find(&pegboardTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to load pegboard types: %w", err)
	}

	return toDefinition(parts, assemblies, components, compat, models, basinTypes, pegboardTypes), nil
}

// ImportCatalog upserts def in one transaction. Components and compatibility rows of every
// imported assembly are replaced; entries absent from def are left in place.
func (s *gormStore) ImportCatalog(ctx context.Context, def *catalog.Definition) (Counts, error) {
	rows := fromDefinition(def)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, rows.parts, "id", []string{"name", "type", "status", "category_code",
			"manufacturer_name", "manufacturer_part_number", "requires_serial_tracking", "is_outsourced", "updated_at"}); err != nil {
			return fmt.Errorf("batch upsert parts failed: %w", err)
		}
		if err := upsert(tx, rows.assemblies, "id", []string{"name", "type", "status", "category_code",
			"subcategory_code", "requires_serial_tracking", "is_outsourced", "updated_at"}); err != nil {
			return fmt.Errorf("batch upsert assemblies failed: %w", err)
		}

		if len(rows.assemblyIDs) > 0 {
			if err := tx.Where("assembly_id IN ?", rows.assemblyIDs).Delete(&model.AssemblyComponent{}).Error; err != nil {
				return fmt.Errorf("failed to clear assembly components: %w", err)
			}
			if err := tx.Where("assembly_id IN ?", rows.assemblyIDs).Delete(&model.ModelCompatibility{}).Error; err != nil {
				return fmt.Errorf("failed to clear model compatibility: %w", err)
			}
		}
		if len(rows.components) > 0 {
			if err := tx.CreateInBatches(&rows.components, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert assembly components: %w", err)
			}
		}
		if len(rows.compat) > 0 {
			if err := tx.CreateInBatches(&rows.compat, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert model compatibility: %w", err)
			}
		}

		if err := upsert(tx, rows.models, "id", []string{"name", "min_width", "max_width", "min_length",
			"max_length", "max_basins", "updated_at"}); err != nil {
			return fmt.Errorf("batch upsert sink models failed: %w", err)
		}
		if err := upsert(tx, rows.basinTypes, "id", []string{"name", "kind", "updated_at"}); err != nil {
			return fmt.Errorf("batch upsert basin types failed: %w", err)
		}
		if err := upsert(tx, rows.pegboardTypes, "code", []string{"name", "updated_at"}); err != nil {
			return fmt.Errorf("batch upsert pegboard types failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}

	return Counts{
		Parts:         int64(len(rows.parts)),
		Assemblies:    int64(len(rows.assemblies)),
		Components:    int64(len(rows.components)),
		Models:        int64(len(rows.models)),
		BasinTypes:    int64(len(rows.basinTypes)),
		PegboardTypes: int64(len(rows.pegboardTypes)),
	}, nil
}

// CatalogStats counts the rows of every catalog table.
func (s *gormStore) CatalogStats(ctx context.Context) (Counts, error) {
	db := s.db.WithContext(ctx)
	var c Counts
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&model.Part{}, &c.Parts},
		{&model.Assembly{}, &c.Assemblies},
		{&model.AssemblyComponent{}, &c.Components},
		{&model.SinkModel{}, &c.Models},
		{&model.BasinType{}, &c.BasinTypes},
		{&model.PegboardType{}, &c.PegboardTypes},
	} {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			return Counts{}, fmt.Errorf("failed to count %T: %w", q.model, err)
		}
	}
	return c, nil
}

func upsert[T any](tx *gorm.DB, rows []T, key string, columns []string) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: key}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).CreateInBatches(&rows, batchSize).Error
}
