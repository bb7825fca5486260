package model

import "time"

// Part is an atomic catalog entry.
type Part struct {
	ID                     string `gorm:"primaryKey;size:64"`
	Name                   string `gorm:"size:256;not null"`
	Type                   string `gorm:"size:32;not null"`
	Status                 string `gorm:"size:32;not null"`
	CategoryCode           string `gorm:"size:64;index"`
	ManufacturerName       string `gorm:"size:128"`
	ManufacturerPartNumber string `gorm:"size:128"`
	RequiresSerialTracking bool   `gorm:"not null;default:false"`
	IsOutsourced           bool   `gorm:"not null;default:false"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
