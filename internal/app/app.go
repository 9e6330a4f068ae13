package app

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/phenrril/backoffice/internal/adapters/auth"
	"github.com/phenrril/backoffice/internal/adapters/httpserver"
	"github.com/phenrril/backoffice/internal/adapters/repo/postgres"
	"github.com/phenrril/backoffice/internal/adapters/restcountries"
	"github.com/phenrril/backoffice/internal/config"
	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/usecase"
)

type App struct {
	DB     *gorm.DB
	Config *config.Config
	Tokens *auth.TokenIssuer

	ProviderUC    *usecase.ProviderUC
	ServiceUC     *usecase.ServiceUC
	CountryUC     *usecase.CountryUC
	CustomFieldUC *usecase.CustomFieldUC
	StatisticsUC  *usecase.StatisticsUC
	AuthUC        *usecase.AuthUC
}

// NewApp wires the use cases over db. A nil source uses the REST Countries
// client from cfg.
func NewApp(cfg *config.Config, db *gorm.DB, source domain.CountrySource) (*App, error) {
	if source == nil {
		client, err := restcountries.New(cfg.Countries.BaseURL, cfg.Countries.Timeout,
			restcountries.WithRateLimit(cfg.Countries.RPS, 1))
		if err != nil {
			return nil, fmt.Errorf("countries client: %w", err)
		}
		source = client
	}
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience, cfg.Auth.ExpirationMinutes)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	store := postgres.NewStore(db, auth.ContextActor{})
	countries := &usecase.CountryUC{Store: store, Source: source}

	return &App{
		DB:            db,
		Config:        cfg,
		Tokens:        tokens,
		ProviderUC:    &usecase.ProviderUC{Store: store},
		ServiceUC:     &usecase.ServiceUC{Store: store, Countries: countries},
		CountryUC:     countries,
		CustomFieldUC: &usecase.CustomFieldUC{Store: store},
		StatisticsUC:  &usecase.StatisticsUC{Store: store},
		AuthUC: &usecase.AuthUC{
			Credentials: auth.Credentials{Username: cfg.Auth.AdminUser, Password: cfg.Auth.AdminPass},
			Tokens:      tokens,
		},
	}, nil
}

func (a *App) Migrate() error {
	return postgres.Migrate(a.DB)
}

func (a *App) HTTPHandler() (http.Handler, error) {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, "backoffice"),
	)
	h := httpserver.Handlers{
		Providers:    a.ProviderUC,
		Services:     a.ServiceUC,
		Countries:    a.CountryUC,
		CustomFields: a.CustomFieldUC,
		Statistics:   a.StatisticsUC,
		Auth:         a.AuthUC,
	}
	return httpserver.New(h, a.Tokens, sqlDB, httpserver.Options{
		CORSOrigin:     a.Config.HTTP.CORSOrigin,
		RateLimitRPS:   a.Config.HTTP.RateLimitRPS,
		RateLimitBurst: a.Config.HTTP.RateLimitBurst,
		Registry:       reg,
	}), nil
}
