package domain

import "time"

// Audited is embedded by every entity that records who created and last
// modified it. The unit of work stamps it when changes are saved.
type Audited struct {
	CreatedAt time.Time  `gorm:"autoCreateTime:false;not null"`
	CreatedBy string     `gorm:"size:100"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
	UpdatedBy *string    `gorm:"size:100"`
}

type Auditable interface {
	StampCreated(actor string, at time.Time)
	StampUpdated(actor string, at time.Time)
}

func (a *Audited) StampCreated(actor string, at time.Time) {
	a.CreatedAt = at
	a.CreatedBy = actor
}

func (a *Audited) StampUpdated(actor string, at time.Time) {
	a.UpdatedAt = &at
	a.UpdatedBy = &actor
}
