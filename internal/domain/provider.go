package domain

import (
	"github.com/google/uuid"
)

type Provider struct {
	ID           uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Nit          string                `gorm:"size:20;not null;uniqueIndex"`
	Name         string                `gorm:"size:200;not null"`
	Email        string                `gorm:"size:100;not null;uniqueIndex"`
	Services     []Service             `gorm:"constraint:OnDelete:CASCADE"`
	CustomFields []ProviderCustomField `gorm:"constraint:OnDelete:CASCADE"`
	Audited
}
