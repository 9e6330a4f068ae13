package domain

import (
	"strings"

	"github.com/google/uuid"
)

type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeEmail   FieldType = "email"
	FieldTypeURL     FieldType = "url"
)

var fieldTypes = []FieldType{
	FieldTypeText, FieldTypeNumber, FieldTypeDate,
	FieldTypeBoolean, FieldTypeEmail, FieldTypeURL,
}

// ParseFieldType accepts any casing; an empty value yields text.
func ParseFieldType(s string) (FieldType, bool) {
	v := FieldType(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return FieldTypeText, true
	}
	for _, ft := range fieldTypes {
		if ft == v {
			return v, true
		}
	}
	return "", false
}

type ProviderCustomField struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProviderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	FieldName    string    `gorm:"size:100;not null"`
	FieldValue   string    `gorm:"size:1000;not null"`
	FieldType    FieldType `gorm:"type:varchar(20);not null;default:text"`
	Description  *string   `gorm:"size:500"`
	DisplayOrder int       `gorm:"not null;default:0"`
	Audited
}
