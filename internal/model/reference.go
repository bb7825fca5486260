package model

import "time"

// SinkModel stores the dimensional bounds of a sink model.
type SinkModel struct {
	ID        string  `gorm:"primaryKey;size:64"`
	Name      string  `gorm:"size:256"`
	MinWidth  float64 `gorm:"not null;default:0"`
	MaxWidth  float64 `gorm:"not null;default:0"`
	MinLength float64 `gorm:"not null;default:0"`
	MaxLength float64 `gorm:"not null;default:0"`
	MaxBasins int     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// BasinType is an entry of the basin-type catalog.
type BasinType struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:256"`
	Kind      string `gorm:"size:32;not null"`
	UpdatedAt time.Time
}

// PegboardType is a selectable pegboard style.
type PegboardType struct {
	Code      string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:128"`
	UpdatedAt time.Time
}

// All returns every catalog table model, in migration order.
func All() []any {
	return []any{
		&Part{},
		&Assembly{},
		&AssemblyComponent{},
		&ModelCompatibility{},
		&SinkModel{},
		&BasinType{},
		&PegboardType{},
	}
}
