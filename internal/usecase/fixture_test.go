package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phenrril/backoffice/internal/adapters/auth"
	"github.com/phenrril/backoffice/internal/adapters/repo/postgres"
	"github.com/phenrril/backoffice/internal/adapters/repo/postgres/dbtest"
	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/usecase"
)

var reference = []domain.CountryInfo{
	{Code: "AR", Alpha3: "ARG", Name: "Argentina", FlagURL: "https://flags.example/ar.png"},
	{Code: "CO", Alpha3: "COL", Name: "Colombia", FlagURL: "https://flags.example/co.png"},
	{Code: "MX", Alpha3: "MEX", Name: "Mexico"},
	{Code: "PE", Alpha3: "PER", Name: "Peru", FlagURL: "https://flags.example/pe.png"},
}

type fakeSource struct {
	countries []domain.CountryInfo
	err       error
	calls     int
}

func (f *fakeSource) FetchAll(ctx context.Context) ([]domain.CountryInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.CountryInfo(nil), f.countries...), nil
}

func (f *fakeSource) FetchByCode(ctx context.Context, code string) (*domain.CountryInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.countries {
		if c.Code == code {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fixture struct {
	db        *gorm.DB
	source    *fakeSource
	providers *usecase.ProviderUC
	services  *usecase.ServiceUC
	countries *usecase.CountryUC
	fields    *usecase.CustomFieldUC
	stats     *usecase.StatisticsUC
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	store := postgres.NewStore(db, auth.ContextActor{})
	src := &fakeSource{countries: reference}
	countries := &usecase.CountryUC{Store: store, Source: src}
	return &fixture{
		db:        db,
		source:    src,
		providers: &usecase.ProviderUC{Store: store},
		services:  &usecase.ServiceUC{Store: store, Countries: countries},
		countries: countries,
		fields:    &usecase.CustomFieldUC{Store: store},
		stats:     &usecase.StatisticsUC{Store: store},
	}
}

func (f *fixture) provider(t *testing.T, nit, name, email string) uuid.UUID {
	t.Helper()
	res, err := f.providers.Create(context.Background(), usecase.CreateProviderCommand{Nit: nit, Name: name, Email: email})
	require.NoError(t, err)
	require.True(t, res.IsSuccess, res.Message)
	return res.Data.ID
}

func (f *fixture) service(t *testing.T, providerID uuid.UUID, name string, rate float64, codes ...string) uuid.UUID {
	t.Helper()
	res, err := f.services.Create(context.Background(), usecase.CreateServiceCommand{
		Name:         name,
		HourlyRate:   rate,
		ProviderID:   providerID,
		CountryCodes: codes,
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess, res.Message)
	return res.Data.ID
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func codesOf(list []usecase.CountryDTO) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Code)
	}
	return out
}

func nit(i int) string { return fmt.Sprintf("9%08d", i) }
