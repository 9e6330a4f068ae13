package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/usecase"
)

func TestServiceCreate_UnknownCountryRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	pid := f.provider(t, "1", "Acme", "a@acme.com")

	res, err := f.services.Create(context.Background(), usecase.CreateServiceCommand{
		Name:         "Consulting",
		HourlyRate:   40,
		ProviderID:   pid,
		CountryCodes: []string{"CO", "ZZ"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsSuccess)
	assert.Nil(t, res.Data)
	assert.Equal(t, usecase.KindValidation, res.Kind)
	assert.Equal(t, "Country code 'ZZ' is not valid.", res.Message)

	assert.Zero(t, f.count(t, &domain.Service{}))
	assert.Zero(t, f.count(t, &domain.ServiceCountry{}))
	assert.Zero(t, f.count(t, &domain.Country{}))
}

func TestServiceCreate_MissingProvider(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()
	res, err := f.services.Create(context.Background(), usecase.CreateServiceCommand{
		Name: "Consulting", HourlyRate: 40, ProviderID: missing, CountryCodes: []string{"CO"},
	})
	require.NoError(t, err)
	assert.Equal(t, usecase.KindNotFound, res.Kind)
	assert.Equal(t, fmt.Sprintf("Provider with ID '%s' not found.", missing), res.Message)
	assert.Zero(t, f.source.calls)
}

func TestServiceCreate_MirrorsCountriesOnce(t *testing.T) {
	f := newFixture(t)
	pid := f.provider(t, "1", "Acme", "a@acme.com")

	f.service(t, pid, "Audit", 30, "co", " PE", "CO")
	f.service(t, pid, "Training", 20, "CO")

	assert.Equal(t, int64(2), f.count(t, &domain.Country{}))
	assert.Equal(t, int64(3), f.count(t, &domain.ServiceCountry{}))

	var co domain.Country
	require.NoError(t, f.db.First(&co, "code = ?", "CO").Error)
	assert.Equal(t, "COL", co.CodeAlpha3)
	assert.Equal(t, "Colombia", co.Name)
	require.NotNil(t, co.Flag)
}

func TestServiceCreate_NoCodesSkipsReferenceSource(t *testing.T) {
	f := newFixture(t)
	pid := f.provider(t, "1", "Acme", "a@acme.com")
	f.source.err = fmt.Errorf("%w: dial tcp", domain.ErrExternalUnavailable)

	id := f.service(t, pid, "Remote", 10)
	assert.Zero(t, f.source.calls)

	got, err := f.services.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, got.Data.Countries)
}

func TestServiceCreate_SourceFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind usecase.Kind
		msg  string
	}{
		{"unreachable", fmt.Errorf("%w: timeout", domain.ErrExternalUnavailable), usecase.KindUnavailable, "Connection error with external countries API. Please try again."},
		{"malformed", fmt.Errorf("%w: unexpected token", domain.ErrExternalMalformed), usecase.KindUpstream, "External API response does not have the expected format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			pid := f.provider(t, "1", "Acme", "a@acme.com")
			f.source.err = tc.err

			res, err := f.services.Create(context.Background(), usecase.CreateServiceCommand{
				Name: "Consulting", HourlyRate: 40, ProviderID: pid, CountryCodes: []string{"CO"},
			})
			require.NoError(t, err)
			assert.False(t, res.IsSuccess)
			assert.Equal(t, tc.kind, res.Kind)
			assert.Equal(t, tc.msg, res.Message)
			assert.Zero(t, f.count(t, &domain.Service{}))
		})
	}
}

func TestServiceUpdate_ReplacesAndClearsCountries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.provider(t, "1", "Acme", "a@acme.com")
	other := f.provider(t, "2", "Beta", "b@beta.com")
	id := f.service(t, pid, "Consulting", 50, "CO", "PE")

	desc := " Senior consultants "
	res, err := f.services.Update(ctx, usecase.UpdateServiceCommand{
		ID: id, Name: "Consulting+", HourlyRate: 75, Description: &desc, ProviderID: other, CountryCodes: []string{"AR", "CO"},
	})
	require.NoError(t, err)
	require.True(t, res.IsSuccess, res.Message)
	assert.Equal(t, []string{"AR", "CO"}, codesOf(res.Data.Countries))
	assert.Equal(t, "Beta", res.Data.ProviderName)
	require.NotNil(t, res.Data.Description)
	assert.Equal(t, "Senior consultants", *res.Data.Description)

	res, err = f.services.Update(ctx, usecase.UpdateServiceCommand{ID: id, Name: "Consulting+", HourlyRate: 75, ProviderID: other})
	require.NoError(t, err)
	require.True(t, res.IsSuccess, res.Message)
	assert.Empty(t, res.Data.Countries)
	assert.Zero(t, f.count(t, &domain.ServiceCountry{}))
}

func TestServiceUpdate_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.provider(t, "1", "Acme", "a@acme.com")
	id := f.service(t, pid, "Consulting", 50, "CO")

	res, err := f.services.Update(ctx, usecase.UpdateServiceCommand{ID: uuid.New(), Name: "x", HourlyRate: 1, ProviderID: pid})
	require.NoError(t, err)
	assert.Equal(t, "Service not found.", res.Message)

	res, err = f.services.Update(ctx, usecase.UpdateServiceCommand{ID: id, Name: "x", HourlyRate: 1, ProviderID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, usecase.KindNotFound, res.Kind)

	res, err = f.services.Update(ctx, usecase.UpdateServiceCommand{ID: id, Name: "x", HourlyRate: 1, ProviderID: pid, CountryCodes: []string{"MX", "QQ"}})
	require.NoError(t, err)
	assert.Equal(t, usecase.KindValidation, res.Kind)

	got, err := f.services.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Consulting", got.Data.Name)
	assert.Equal(t, []string{"CO"}, codesOf(got.Data.Countries))
}

func TestServiceDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := f.provider(t, "1", "Acme", "a@acme.com")
	id := f.service(t, pid, "Consulting", 50, "CO")

	res, err := f.services.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.IsSuccess)
	assert.Zero(t, f.count(t, &domain.ServiceCountry{}))
	assert.Equal(t, int64(1), f.count(t, &domain.Country{}))

	res, err = f.services.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, usecase.KindNotFound, res.Kind)
}

func TestServiceListByProvider(t *testing.T) {
	f := newFixture(t)
	pid := f.provider(t, "1", "Acme", "a@acme.com")
	f.service(t, pid, "Training", 20)
	f.service(t, pid, "Audit", 30)

	res, err := f.services.ListByProvider(context.Background(), pid)
	require.NoError(t, err)
	require.True(t, res.IsSuccess)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Audit", res.Data[0].Name)
	assert.Equal(t, "Found 2 services for provider 'Acme'.", res.Message)

	res, err = f.services.ListByProvider(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, usecase.KindNotFound, res.Kind)
}

func TestServiceList_SearchAndProviderFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.provider(t, "1", "Acme", "a@acme.com")
	beta := f.provider(t, "2", "Beta", "b@beta.com")
	f.service(t, acme, "Cloud migration", 90)
	f.service(t, acme, "Training", 20)
	f.service(t, beta, "Cloud audit", 60)

	desc := "Hands-on cloud labs"
	_, err := f.services.Create(ctx, usecase.CreateServiceCommand{Name: "Workshop", HourlyRate: 15, ProviderID: beta, Description: &desc})
	require.NoError(t, err)

	res, err := f.services.List(ctx, usecase.ServiceListQuery{SearchTerm: "CLOUD", OrderBy: "hourlyRate"})
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	assert.Equal(t, "Workshop", res.Data[0].Name)
	assert.Equal(t, "Cloud migration", res.Data[2].Name)

	res, err = f.services.List(ctx, usecase.ServiceListQuery{SearchTerm: "cloud", ProviderID: &acme})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Cloud migration", res.Data[0].Name)
	assert.Equal(t, "Acme", res.Data[0].ProviderName)
	assert.Equal(t, 1, res.TotalPages)
}
