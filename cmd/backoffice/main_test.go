package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/phenrril/backoffice/internal/adapters/repo/postgres/dbtest"
	"github.com/phenrril/backoffice/internal/config"
	"github.com/phenrril/backoffice/internal/domain"
)

type fakeSource struct{}

func (fakeSource) FetchAll(context.Context) ([]domain.CountryInfo, error) {
	return []domain.CountryInfo{
		{Code: "CO", Alpha3: "COL", Name: "Colombia"},
		{Code: "PE", Alpha3: "PER", Name: "Peru"},
	}, nil
}

func (fakeSource) FetchByCode(context.Context, string) (*domain.CountryInfo, error) {
	return nil, domain.ErrNotFound
}

func useTestDeps(t *testing.T) {
	t.Helper()
	db := dbtest.Open(t)
	prevOpen, prevSource := openDB, countrySource
	openDB = func(config.DBConfig) (*gorm.DB, error) { return db, nil }
	countrySource = fakeSource{}
	t.Cleanup(func() {
		openDB, countrySource = prevOpen, prevSource
		localOnly = false
		rootCmd.SetArgs(nil)
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := []string{}
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.Contains(t, names, "countries")
}

func TestCountriesSyncCmd_RequiresArgs(t *testing.T) {
	useTestDeps(t)
	_, err := execute(t, "countries", "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestCountriesSyncThenListLocal(t *testing.T) {
	useTestDeps(t)

	out, err := execute(t, "countries", "sync", "co", "PE")
	require.NoError(t, err)
	assert.Contains(t, out, "2 country(ies) synchronized successfully.")

	out, err = execute(t, "countries", "sync", "CO")
	require.NoError(t, err)
	assert.Contains(t, out, "All countries already exist in the database.")

	_, err = execute(t, "countries", "sync", "ZZ")
	require.Error(t, err)
	assert.Equal(t, "Country code 'ZZ' is not valid.", err.Error())

	out, err = execute(t, "countries", "list", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "CODE")
	assert.Contains(t, out, "Colombia")
	assert.Contains(t, out, "PER")
}

func TestMigrateCmd(t *testing.T) {
	useTestDeps(t)
	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migration complete.")
}
