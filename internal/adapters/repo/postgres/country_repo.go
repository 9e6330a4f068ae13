package postgres

import (
	"context"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

type CountryRepo struct {
	*repository[domain.Country, string]
}

func newCountryRepo(u *UnitOfWork) *CountryRepo {
	r := newRepository[domain.Country, string](u, "code")
	r.defaultOrder = query.Order{Column: "name"}
	return &CountryRepo{r}
}

// ExistingCodes reports which of codes are already mirrored.
func (r *CountryRepo) ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error) {
	found := map[string]bool{}
	if len(codes) == 0 {
		return found, nil
	}
	var have []string
	if err := r.base(ctx).Where("code IN ?", codes).Pluck("code", &have).Error; err != nil {
		return nil, err
	}
	for _, c := range have {
		found[c] = true
	}
	return found, nil
}
