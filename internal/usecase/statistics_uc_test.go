package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/backoffice/internal/usecase"
)

func TestStatistics_ProviderCountedOncePerCountry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.provider(t, "1", "Acme", "a@acme.com")
	beta := f.provider(t, "2", "Beta", "b@beta.com")
	f.provider(t, "3", "Idle", "idle@x.com")
	f.service(t, acme, "Audit", 10.5, "CO")
	f.service(t, acme, "Training", 20.25, "CO", "PE")
	f.service(t, beta, "Support", 30, "PE")

	providers, err := f.stats.ProvidersByCountry(ctx)
	require.NoError(t, err)
	require.True(t, providers.IsSuccess)
	assert.Equal(t, 3, providers.Data.TotalProviders)
	assert.Equal(t, 2, providers.Data.TotalCountries)
	assert.Equal(t, []usecase.CountryStatistic{
		{CountryCode: "PE", CountryName: "Peru", Count: 2},
		{CountryCode: "CO", CountryName: "Colombia", Count: 1},
	}, providers.Data.ProvidersByCountry)

	services, err := f.stats.ServicesByCountry(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, services.Data.TotalServices)
	assert.Equal(t, []usecase.CountryStatistic{
		{CountryCode: "CO", CountryName: "Colombia", Count: 2},
		{CountryCode: "PE", CountryName: "Peru", Count: 2},
	}, services.Data.ServicesByCountry)
	assert.InDelta(t, 20.25, services.Data.AverageHourlyRate, 1e-9)
}

func TestStatistics_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	acme := f.provider(t, "1", "Acme", "a@acme.com")
	f.service(t, acme, "Audit", 10.5, "MX")
	f.service(t, acme, "Training", 20.25, "MX", "AR")

	res, err := f.stats.Summary(ctx)
	require.NoError(t, err)
	require.True(t, res.IsSuccess)
	r := res.Data
	assert.Equal(t, 1, r.TotalProviders)
	assert.Equal(t, 2, r.TotalServices)
	assert.Equal(t, 2, r.TotalCountriesCovered)
	assert.InDelta(t, 15.38, r.AverageHourlyRate, 1e-9)
	require.NotNil(t, r.CheapestService)
	assert.Equal(t, "Audit", r.CheapestService.Name)
	assert.Equal(t, "Acme", r.CheapestService.ProviderName)
	require.NotNil(t, r.MostExpensiveService)
	assert.Equal(t, "Training", r.MostExpensiveService.Name)
	assert.Equal(t, []usecase.CountrySummary{
		{CountryCode: "MX", CountryName: "Mexico", ProvidersCount: 1, ServicesCount: 2},
		{CountryCode: "AR", CountryName: "Argentina", ProvidersCount: 1, ServicesCount: 1},
	}, r.CountryStatistics)
}

func TestStatistics_EmptyCatalogue(t *testing.T) {
	f := newFixture(t)
	res, err := f.stats.Summary(context.Background())
	require.NoError(t, err)
	require.True(t, res.IsSuccess)
	assert.Zero(t, res.Data.AverageHourlyRate)
	assert.Nil(t, res.Data.CheapestService)
	assert.Nil(t, res.Data.MostExpensiveService)
	assert.Empty(t, res.Data.CountryStatistics)

	services, err := f.stats.ServicesByCountry(context.Background())
	require.NoError(t, err)
	assert.Zero(t, services.Data.AverageHourlyRate)
	assert.Equal(t, "Found 0 service(s) across 0 country(ies)", services.Message)
}
