package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/phenrril/backoffice/internal/domain"
)

type CustomFieldRepo struct {
	*repository[domain.ProviderCustomField, uuid.UUID]
}

func newCustomFieldRepo(u *UnitOfWork) *CustomFieldRepo {
	return &CustomFieldRepo{newRepository[domain.ProviderCustomField, uuid.UUID](u, "id")}
}

func (r *CustomFieldRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ProviderCustomField, error) {
	list := []domain.ProviderCustomField{}
	err := r.reads(ctx).
		Where("provider_id = ?", providerID).
		Order("display_order asc").
		Order("field_name asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
