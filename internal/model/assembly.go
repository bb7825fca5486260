package model

import "time"

// Assembly is a catalog entry composed of parts and other assemblies.
type Assembly struct {
	ID                     string `gorm:"primaryKey;size:64"`
	Name                   string `gorm:"size:256;not null"`
	Type                   string `gorm:"size:32;not null"`
	Status                 string `gorm:"size:32;not null"`
	CategoryCode           string `gorm:"size:64;index"`
	SubcategoryCode        string `gorm:"size:64"`
	RequiresSerialTracking bool   `gorm:"not null;default:false"`
	IsOutsourced           bool   `gorm:"not null;default:false"`
	CreatedAt              time.Time
	UpdatedAt              time.Time

	// Associations
	Components       []AssemblyComponent  `gorm:"foreignKey:AssemblyID;constraint:OnDelete:CASCADE"`
	CompatibleModels []ModelCompatibility `gorm:"foreignKey:AssemblyID;constraint:OnDelete:CASCADE"`
}

// AssemblyComponent is one ordered line of an assembly. Exactly one of PartID and
// ChildAssemblyID is set.
type AssemblyComponent struct {
	AssemblyID      string  `gorm:"primaryKey;size:64"`
	Position        int     `gorm:"primaryKey"`
	PartID          *string `gorm:"size:64;index"`
	ChildAssemblyID *string `gorm:"size:64;index"`
	Quantity        int     `gorm:"not null"`
	Notes           string  `gorm:"size:512"`
}

// ModelCompatibility declares that an assembly fits a sink model.
type ModelCompatibility struct {
	AssemblyID string `gorm:"primaryKey;size:64"`
	ModelID    string `gorm:"primaryKey;size:64"`
}
