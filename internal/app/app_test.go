package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/backoffice/internal/adapters/repo/postgres/dbtest"
	"github.com/phenrril/backoffice/internal/config"
	"github.com/phenrril/backoffice/internal/domain"
)

type emptySource struct{}

func (emptySource) FetchAll(context.Context) ([]domain.CountryInfo, error) { return nil, nil }

func (emptySource) FetchByCode(context.Context, string) (*domain.CountryInfo, error) {
	return nil, domain.ErrNotFound
}

func TestNewApp_ServesHealthAndMetrics(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := NewApp(cfg, dbtest.Open(t), emptySource{})
	require.NoError(t, err)
	require.NoError(t, a.Migrate())

	h, err := a.HTTPHandler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "go_sql_open_connections")
}

func TestNewApp_DefaultSource(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	a, err := NewApp(cfg, dbtest.Open(t), nil)
	require.NoError(t, err)
	assert.NotNil(t, a.CountryUC.Source)
}
