package usecase

import (
	"github.com/phenrril/backoffice/internal/domain"
)

func toCountryDTO(c domain.Country) CountryDTO {
	return CountryDTO{Code: c.Code, CodeAlpha3: c.CodeAlpha3, Name: c.Name, Flag: c.Flag}
}

func infoToCountryDTO(c domain.CountryInfo) CountryDTO {
	dto := CountryDTO{Code: c.Code, CodeAlpha3: c.Alpha3, Name: c.Name}
	if c.FlagURL != "" {
		flag := c.FlagURL
		dto.Flag = &flag
	}
	return dto
}

func infoToCountry(c domain.CountryInfo) domain.Country {
	country := domain.Country{Code: c.Code, CodeAlpha3: c.Alpha3, Name: c.Name}
	if c.FlagURL != "" {
		flag := c.FlagURL
		country.Flag = &flag
	}
	return country
}

func toCustomFieldDTO(f domain.ProviderCustomField) CustomFieldDTO {
	return CustomFieldDTO{
		ID:           f.ID,
		ProviderID:   f.ProviderID,
		FieldName:    f.FieldName,
		FieldValue:   f.FieldValue,
		FieldType:    string(f.FieldType),
		Description:  f.Description,
		DisplayOrder: f.DisplayOrder,
		CreatedAt:    f.CreatedAt,
		CreatedBy:    f.CreatedBy,
		UpdatedAt:    f.UpdatedAt,
		UpdatedBy:    f.UpdatedBy,
	}
}

func toServiceDTO(s domain.Service) ServiceDTO {
	dto := ServiceDTO{
		ID:          s.ID,
		Name:        s.Name,
		HourlyRate:  s.HourlyRate,
		Description: s.Description,
		ProviderID:  s.ProviderID,
		Countries:   make([]CountryDTO, 0, len(s.Countries)),
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
		UpdatedAt:   s.UpdatedAt,
		UpdatedBy:   s.UpdatedBy,
	}
	if s.Provider != nil {
		dto.ProviderName = s.Provider.Name
	}
	for _, sc := range s.Countries {
		if sc.Country != nil {
			dto.Countries = append(dto.Countries, toCountryDTO(*sc.Country))
			continue
		}
		dto.Countries = append(dto.Countries, CountryDTO{Code: sc.CountryCode})
	}
	return dto
}

func toServiceDTOs(list []domain.Service) []ServiceDTO {
	out := make([]ServiceDTO, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceDTO(s))
	}
	return out
}

func toProviderDTO(p domain.Provider) ProviderDTO {
	dto := ProviderDTO{
		ID:           p.ID,
		Nit:          p.Nit,
		Name:         p.Name,
		Email:        p.Email,
		CreatedAt:    p.CreatedAt,
		CreatedBy:    p.CreatedBy,
		UpdatedAt:    p.UpdatedAt,
		UpdatedBy:    p.UpdatedBy,
		CustomFields: make([]CustomFieldDTO, 0, len(p.CustomFields)),
		Services:     make([]ServiceDTO, 0, len(p.Services)),
	}
	for _, f := range p.CustomFields {
		dto.CustomFields = append(dto.CustomFields, toCustomFieldDTO(f))
	}
	for _, s := range p.Services {
		sd := toServiceDTO(s)
		if sd.ProviderName == "" {
			sd.ProviderName = p.Name
		}
		dto.Services = append(dto.Services, sd)
	}
	return dto
}
