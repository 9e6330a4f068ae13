package domain

// Country is mirrored lazily from the reference source and keyed by its
// ISO 3166-1 alpha-2 code.
type Country struct {
	Code       string  `gorm:"size:2;primaryKey"`
	CodeAlpha3 string  `gorm:"size:3;not null"`
	Name       string  `gorm:"size:100;not null"`
	Flag       *string `gorm:"size:500"`
}
