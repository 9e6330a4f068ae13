package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/backoffice/internal/domain"
)

type ServiceRepo struct {
	*repository[domain.Service, uuid.UUID]
}

func newServiceRepo(u *UnitOfWork) *ServiceRepo {
	r := newRepository[domain.Service, uuid.UUID](u, "id")
	r.scope = withServiceAssociations
	return &ServiceRepo{r}
}

func withServiceAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Provider").
		Preload("Countries", func(db *gorm.DB) *gorm.DB { return db.Order("country_code asc") }).
		Preload("Countries.Country")
}

// Add stages the service followed by each of its country associations so
// that every row is audit-stamped.
func (r *ServiceRepo) Add(s *domain.Service) {
	r.repository.Add(s)
	for i := range s.Countries {
		sc := &s.Countries[i]
		if sc.ID == uuid.Nil {
			sc.ID = uuid.New()
		}
		sc.ServiceID = s.ID
		r.addCountry(sc)
	}
}

func (r *ServiceRepo) ReplaceCountries(serviceID uuid.UUID, codes []string) {
	r.uow.stage(entryDeleted, nil, func(tx *gorm.DB) error {
		return tx.Where("service_id = ?", serviceID).Delete(&domain.ServiceCountry{}).Error
	})
	for _, code := range codes {
		r.addCountry(&domain.ServiceCountry{ID: uuid.New(), ServiceID: serviceID, CountryCode: code})
	}
}

func (r *ServiceRepo) addCountry(sc *domain.ServiceCountry) {
	r.uow.stage(entryAdded, sc, func(tx *gorm.DB) error {
		return tx.Omit("Country").Create(sc).Error
	})
}

func (r *ServiceRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.Service, error) {
	list := []domain.Service{}
	if err := r.reads(ctx).Where("provider_id = ?", providerID).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
