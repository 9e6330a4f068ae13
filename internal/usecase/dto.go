package usecase

import (
	"time"

	"github.com/google/uuid"
)

type CountryDTO struct {
	Code       string  `json:"code"`
	CodeAlpha3 string  `json:"codeAlpha3"`
	Name       string  `json:"name"`
	Flag       *string `json:"flag"`
}

type CustomFieldDTO struct {
	ID           uuid.UUID  `json:"id"`
	ProviderID   uuid.UUID  `json:"providerId"`
	FieldName    string     `json:"fieldName"`
	FieldValue   string     `json:"fieldValue"`
	FieldType    string     `json:"fieldType"`
	Description  *string    `json:"description"`
	DisplayOrder int        `json:"displayOrder"`
	CreatedAt    time.Time  `json:"createdAt"`
	CreatedBy    string     `json:"createdBy"`
	UpdatedAt    *time.Time `json:"updatedAt"`
	UpdatedBy    *string    `json:"updatedBy"`
}

type ServiceDTO struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	HourlyRate   float64      `json:"hourlyRate"`
	Description  *string      `json:"description"`
	ProviderID   uuid.UUID    `json:"providerId"`
	ProviderName string       `json:"providerName,omitempty"`
	Countries    []CountryDTO `json:"countries"`
	CreatedAt    time.Time    `json:"createdAt"`
	CreatedBy    string       `json:"createdBy"`
	UpdatedAt    *time.Time   `json:"updatedAt"`
	UpdatedBy    *string      `json:"updatedBy"`
}

type ProviderDTO struct {
	ID           uuid.UUID        `json:"id"`
	Nit          string           `json:"nit"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	CreatedAt    time.Time        `json:"createdAt"`
	CreatedBy    string           `json:"createdBy"`
	UpdatedAt    *time.Time       `json:"updatedAt"`
	UpdatedBy    *string          `json:"updatedBy"`
	CustomFields []CustomFieldDTO `json:"customFields"`
	Services     []ServiceDTO     `json:"services"`
}

type LoginDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Username  string    `json:"username"`
}

type SyncCountriesDTO struct {
	Synchronized []string `json:"synchronized"`
	Count        int      `json:"count"`
}

type CountryStatistic struct {
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
	Count       int    `json:"count"`
}

type ProvidersStatistics struct {
	ProvidersByCountry []CountryStatistic `json:"providersByCountry"`
	TotalProviders     int                `json:"totalProviders"`
	TotalCountries     int                `json:"totalCountries"`
}

type ServicesStatistics struct {
	ServicesByCountry []CountryStatistic `json:"servicesByCountry"`
	TotalServices     int                `json:"totalServices"`
	TotalCountries    int                `json:"totalCountries"`
	AverageHourlyRate float64            `json:"averageHourlyRate"`
}

type CountrySummary struct {
	CountryCode    string `json:"countryCode"`
	CountryName    string `json:"countryName"`
	ProvidersCount int    `json:"providersCount"`
	ServicesCount  int    `json:"servicesCount"`
}

type ServiceRate struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	HourlyRate   float64   `json:"hourlyRate"`
	ProviderName string    `json:"providerName"`
}

type SummaryReport struct {
	CountryStatistics     []CountrySummary `json:"countryStatistics"`
	TotalProviders        int              `json:"totalProviders"`
	TotalServices         int              `json:"totalServices"`
	TotalCountriesCovered int              `json:"totalCountriesCovered"`
	AverageHourlyRate     float64          `json:"averageHourlyRate"`
	MostExpensiveService  *ServiceRate     `json:"mostExpensiveService"`
	CheapestService       *ServiceRate     `json:"cheapestService"`
}
