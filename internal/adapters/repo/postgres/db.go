package postgres

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/phenrril/backoffice/internal/config"
	"github.com/phenrril/backoffice/internal/domain"
)

// GormConfig is shared by the production and test dialects.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func Open(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Country{}, &domain.Provider{}, &domain.Service{},
		&domain.ServiceCountry{}, &domain.ProviderCustomField{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		createIndexes(db)
	}
	return nil
}

var postgresIndexes = []struct{ name, ddl string }{
	{"email index", "CREATE UNIQUE INDEX IF NOT EXISTS ux_providers_email_lower ON providers (LOWER(email))"},
	{"service name index", "CREATE INDEX IF NOT EXISTS idx_services_name_lower ON services (LOWER(name))"},
	{"custom field order index", "CREATE INDEX IF NOT EXISTS idx_provider_custom_fields_order ON provider_custom_fields (provider_id, display_order)"},
}

// createIndexes adds the expression indexes AutoMigrate cannot declare.
// Failures are logged and migration continues. It reports how many failed.
func createIndexes(db *gorm.DB) int {
	failed := 0
	for _, ix := range postgresIndexes {
		if err := db.Exec(ix.ddl).Error; err != nil {
			log.Warn().Err(err).Str("index", ix.name).Msg("create index")
			failed++
		}
	}
	return failed
}
