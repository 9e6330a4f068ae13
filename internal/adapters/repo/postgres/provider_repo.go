package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

type ProviderRepo struct {
	*repository[domain.Provider, uuid.UUID]
}

func newProviderRepo(u *UnitOfWork) *ProviderRepo {
	return &ProviderRepo{newRepository[domain.Provider, uuid.UUID](u, "id")}
}

func (r *ProviderRepo) GetByNit(ctx context.Context, nit string) (*domain.Provider, error) {
	n := strings.TrimSpace(nit)
	if n == "" {
		return nil, domain.ErrNotFound
	}
	var p domain.Provider
	if err := r.detailed(ctx).First(&p, "nit = ?", n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*domain.Provider, error) {
	var p domain.Provider
	if err := r.detailed(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepo) detailed(ctx context.Context) *gorm.DB {
	return r.uow.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("name asc") }).
		Preload("Services.Countries", func(db *gorm.DB) *gorm.DB { return db.Order("country_code asc") }).
		Preload("Services.Countries.Country").
		Preload("CustomFields", func(db *gorm.DB) *gorm.DB { return db.Order("display_order asc, field_name asc") })
}

func (r *ProviderRepo) NitTaken(ctx context.Context, nit string, exclude uuid.UUID) (bool, error) {
	return r.Any(ctx, query.And(query.Eq("nit", strings.TrimSpace(nit)), excludeID(exclude)))
}

func (r *ProviderRepo) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	p := query.EqualFold("email", email)
	if p.Empty() {
		return false, nil
	}
	return r.Any(ctx, query.And(p, excludeID(exclude)))
}

func excludeID(id uuid.UUID) query.Predicate {
	if id == uuid.Nil {
		return query.Predicate{}
	}
	return query.NotEq("id", id)
}
