package usecase

import (
	"strings"

	"github.com/google/uuid"
)

type CustomFieldInput struct {
	FieldName    string  `json:"fieldName" validate:"required,max=100"`
	FieldValue   string  `json:"fieldValue" validate:"required,max=500"`
	FieldType    string  `json:"fieldType" validate:"omitempty,fieldtype"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	DisplayOrder int     `json:"displayOrder" validate:"gte=0"`
}

func (in *CustomFieldInput) Normalize() {
	in.FieldName = strings.TrimSpace(in.FieldName)
	in.FieldType = strings.ToLower(strings.TrimSpace(in.FieldType))
	in.Description = trimOptional(in.Description)
}

type CreateProviderCommand struct {
	Nit          string             `json:"nit" validate:"required,max=20,nit"`
	Name         string             `json:"name" validate:"required,min=2,max=200"`
	Email        string             `json:"email" validate:"required,email,max=100"`
	CustomFields []CustomFieldInput `json:"customFields" validate:"omitempty,dive"`
}

func (c *CreateProviderCommand) Normalize() {
	c.Nit, c.Name, c.Email = normalizeProvider(c.Nit, c.Name, c.Email)
	for i := range c.CustomFields {
		c.CustomFields[i].Normalize()
	}
}

type UpdateProviderCommand struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Nit   string    `json:"nit" validate:"required,max=20,nit"`
	Name  string    `json:"name" validate:"required,min=2,max=200"`
	Email string    `json:"email" validate:"required,email,max=100"`
}

func (c *UpdateProviderCommand) Normalize() {
	c.Nit, c.Name, c.Email = normalizeProvider(c.Nit, c.Name, c.Email)
}

// normalizeProvider applies the same rules on create and update: the NIT
// and name are trimmed, the email is trimmed and lower-cased.
func normalizeProvider(nit, name, email string) (string, string, string) {
	return strings.TrimSpace(nit), strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email))
}

type CreateServiceCommand struct {
	Name         string    `json:"name" validate:"required,max=200"`
	HourlyRate   float64   `json:"hourlyRate" validate:"gt=0"`
	Description  *string   `json:"description" validate:"omitempty,max=1000"`
	ProviderID   uuid.UUID `json:"providerId" validate:"required"`
	CountryCodes []string  `json:"countryCodes" validate:"omitempty,dive,len=2,alpha"`
}

func (c *CreateServiceCommand) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = trimOptional(c.Description)
	c.CountryCodes = normalizeCodes(c.CountryCodes)
}

type UpdateServiceCommand struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	Name         string    `json:"name" validate:"required,max=200"`
	HourlyRate   float64   `json:"hourlyRate" validate:"gt=0"`
	Description  *string   `json:"description" validate:"omitempty,max=1000"`
	ProviderID   uuid.UUID `json:"providerId" validate:"required"`
	CountryCodes []string  `json:"countryCodes" validate:"omitempty,dive,len=2,alpha"`
}

func (c *UpdateServiceCommand) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = trimOptional(c.Description)
	c.CountryCodes = normalizeCodes(c.CountryCodes)
}

type CreateCustomFieldCommand struct {
	ProviderID   uuid.UUID `json:"providerId" validate:"required"`
	FieldName    string    `json:"fieldName" validate:"required,max=100"`
	FieldValue   string    `json:"fieldValue" validate:"required,max=500"`
	FieldType    string    `json:"fieldType" validate:"omitempty,fieldtype"`
	Description  *string   `json:"description" validate:"omitempty,max=500"`
	DisplayOrder int       `json:"displayOrder" validate:"gte=0"`
}

func (c *CreateCustomFieldCommand) Normalize() {
	c.FieldName = strings.TrimSpace(c.FieldName)
	c.FieldType = strings.ToLower(strings.TrimSpace(c.FieldType))
	c.Description = trimOptional(c.Description)
}

type UpdateCustomFieldCommand struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	ProviderID   uuid.UUID `json:"providerId" validate:"required"`
	FieldName    string    `json:"fieldName" validate:"required,max=100"`
	FieldValue   string    `json:"fieldValue" validate:"required,max=500"`
	FieldType    string    `json:"fieldType" validate:"omitempty,fieldtype"`
	Description  *string   `json:"description" validate:"omitempty,max=500"`
	DisplayOrder int       `json:"displayOrder" validate:"gte=0"`
}

func (c *UpdateCustomFieldCommand) Normalize() {
	c.FieldName = strings.TrimSpace(c.FieldName)
	c.FieldType = strings.ToLower(strings.TrimSpace(c.FieldType))
	c.Description = trimOptional(c.Description)
}

type LoginCommand struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=3"`
}

type ProviderListQuery struct {
	PageNumber      int
	PageSize        int
	SearchTerm      string
	Nit             string
	Email           string
	OrderBy         string
	OrderDescending bool
}

type ServiceListQuery struct {
	PageNumber      int
	PageSize        int
	SearchTerm      string
	ProviderID      *uuid.UUID
	OrderBy         string
	OrderDescending bool
}

// normalizeCodes upper-cases, trims and de-duplicates country codes while
// keeping their first-seen order. Blank entries are dropped.
func normalizeCodes(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
