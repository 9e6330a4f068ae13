package domain

import (
	"github.com/google/uuid"
)

type Service struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name        string           `gorm:"size:200;not null"`
	HourlyRate  float64          `gorm:"type:decimal(18,2);not null"`
	Description *string          `gorm:"size:1000"`
	ProviderID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Provider    *Provider        `gorm:"foreignKey:ProviderID"`
	Countries   []ServiceCountry `gorm:"constraint:OnDelete:CASCADE"`
	Audited
}

// ServiceCountry links a service to a mirrored country.
type ServiceCountry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_service_country"`
	CountryCode string    `gorm:"size:2;not null;uniqueIndex:ux_service_country;index"`
	Country     *Country  `gorm:"foreignKey:CountryCode;references:Code;constraint:OnDelete:RESTRICT"`
	Audited
}

// CountryCodes returns the codes of the loaded associations in storage order.
func (s *Service) CountryCodes() []string {
	out := make([]string, 0, len(s.Countries))
	for _, sc := range s.Countries {
		out = append(out, sc.CountryCode)
	}
	return out
}

// ProviderName falls back to "Unknown" when the association was not loaded.
func (s *Service) ProviderName() string {
	if s.Provider == nil || s.Provider.Name == "" {
		return "Unknown"
	}
	return s.Provider.Name
}
