package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

type fixedActor string

func (a fixedActor) Actor(context.Context) string { return string(a) }

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))

	s := NewStore(db, fixedActor("tester"))
	s.now = func() time.Time { return fixedNow }
	return s, db
}

func seedProvider(t *testing.T, s *Store, nit, name, email string) *domain.Provider {
	t.Helper()
	p := &domain.Provider{ID: uuid.New(), Nit: nit, Name: name, Email: email}
	err := s.WithinTransaction(context.Background(), func(uow domain.UnitOfWork) error {
		uow.Providers().Add(p)
		_, err := uow.SaveChanges(context.Background())
		return err
	})
	require.NoError(t, err)
	return p
}

func seedCountries(t *testing.T, db *gorm.DB, codes ...string) {
	t.Helper()
	for _, c := range codes {
		require.NoError(t, db.Create(&domain.Country{Code: c, CodeAlpha3: c + "X", Name: "Country " + c}).Error)
	}
}

func TestSaveChanges_StampsCreatedThenUpdated(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProvider(t, s, "900", "Acme", "a@acme.com")

	assert.Equal(t, "tester", p.CreatedBy)
	assert.True(t, p.CreatedAt.Equal(fixedNow))
	assert.Nil(t, p.UpdatedAt)

	later := fixedNow.Add(time.Hour)
	s.now = func() time.Time { return later }
	err := s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		got, err := uow.Providers().GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		got.Name = "Acme Corp"
		uow.Providers().Update(got)
		_, err = uow.SaveChanges(ctx)
		return err
	})
	require.NoError(t, err)

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		got, err := uow.Providers().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
		assert.True(t, got.CreatedAt.Equal(fixedNow))
		require.NotNil(t, got.UpdatedAt)
		assert.True(t, got.UpdatedAt.Equal(later))
		require.NotNil(t, got.UpdatedBy)
		assert.Equal(t, "tester", *got.UpdatedBy)
		return nil
	})
}

func TestWithinTransaction_ErrorRollsBack(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		uow.Providers().Add(&domain.Provider{ID: uuid.New(), Nit: "1", Name: "One", Email: "1@x.com"})
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	require.NoError(t, db.Model(&domain.Provider{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWithinTransaction_CancelBeforeCommitPersistsNothing(t *testing.T) {
	s, db := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		uow.Providers().Add(&domain.Provider{ID: uuid.New(), Nit: "1", Name: "One", Email: "1@x.com"})
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	var n int64
	require.NoError(t, db.Model(&domain.Provider{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGetPaged_CountsBeforeWindow(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		seedProvider(t, s, fmt.Sprintf("10%d", i), fmt.Sprintf("Tech %d", i), fmt.Sprintf("t%d@x.com", i))
	}
	seedProvider(t, s, "555", "Other", "o@x.com")

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		order := query.Order{Column: "name"}
		list, total, err := uow.Providers().GetPaged(ctx, query.NewPage(2, 3), query.Contains("name", "tech"), &order)
		require.NoError(t, err)
		assert.EqualValues(t, 7, total)
		require.Len(t, list, 3)
		assert.Equal(t, "Tech 3", list[0].Name)
		assert.Equal(t, "Tech 5", list[2].Name)

		list, total, err = uow.Providers().GetPaged(ctx, query.NewPage(1, 10), query.Contains("name", "nothing"), nil)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, list)
		return nil
	})
}

func TestProviderRepo_TakenExcludesSelf(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProvider(t, s, "123", "Acme", "a@acme.com")

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		taken, err := uow.Providers().NitTaken(ctx, "123", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = uow.Providers().NitTaken(ctx, "123", p.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = uow.Providers().EmailTaken(ctx, "A@ACME.com", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = uow.Providers().EmailTaken(ctx, "a@acme.com", p.ID)
		require.NoError(t, err)
		assert.False(t, taken)
		return nil
	})
}

func TestServiceRepo_AddAndReplaceCountries(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	seedCountries(t, db, "CO", "PE", "MX")
	p := seedProvider(t, s, "123", "Acme", "a@acme.com")

	svc := &domain.Service{
		ID: uuid.New(), Name: "Consulting", HourlyRate: 50, ProviderID: p.ID,
		Countries: []domain.ServiceCountry{{CountryCode: "CO"}, {CountryCode: "PE"}},
	}
	err := s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		uow.Services().Add(svc)
		_, err := uow.SaveChanges(ctx)
		return err
	})
	require.NoError(t, err)

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		got, err := uow.Services().GetByID(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"CO", "PE"}, got.CountryCodes())
		assert.Equal(t, "Acme", got.ProviderName())
		require.NotNil(t, got.Countries[0].Country)
		assert.Equal(t, "Country CO", got.Countries[0].Country.Name)
		assert.Equal(t, "tester", got.Countries[0].CreatedBy)
		return nil
	})

	err = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		uow.Services().ReplaceCountries(svc.ID, []string{"MX"})
		_, err := uow.SaveChanges(ctx)
		return err
	})
	require.NoError(t, err)

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		got, err := uow.Services().GetByID(ctx, svc.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"MX"}, got.CountryCodes())
		return nil
	})
}

func TestProviderRemove_Cascades(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	seedCountries(t, db, "CO")
	p := seedProvider(t, s, "123", "Acme", "a@acme.com")

	err := s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		uow.Services().Add(&domain.Service{
			ID: uuid.New(), Name: "Audit", HourlyRate: 10, ProviderID: p.ID,
			Countries: []domain.ServiceCountry{{CountryCode: "CO"}},
		})
		uow.CustomFields().Add(&domain.ProviderCustomField{
			ID: uuid.New(), ProviderID: p.ID, FieldName: "Size", FieldValue: "10", FieldType: domain.FieldTypeNumber,
		})
		_, err := uow.SaveChanges(ctx)
		return err
	})
	require.NoError(t, err)

	err = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		uow.Providers().Remove(p.ID)
		_, err := uow.SaveChanges(ctx)
		return err
	})
	require.NoError(t, err)

	for _, model := range []any{&domain.Provider{}, &domain.Service{}, &domain.ServiceCountry{}, &domain.ProviderCustomField{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}
	var countries int64
	require.NoError(t, db.Model(&domain.Country{}).Count(&countries).Error)
	assert.EqualValues(t, 1, countries)
}

func TestCountryRepo_ExistingCodes(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	seedCountries(t, db, "CO")

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		found, err := uow.Countries().ExistingCodes(ctx, []string{"CO", "PE"})
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"CO": true}, found)

		_, err = uow.Countries().GetByID(ctx, "PE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
}

func TestCustomFieldRepo_ListByProviderOrdersByDisplayOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := seedProvider(t, s, "123", "Acme", "a@acme.com")

	err := s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		for i, name := range []string{"third", "first", "second"} {
			order := []int{2, 0, 1}[i]
			uow.CustomFields().Add(&domain.ProviderCustomField{
				ID: uuid.New(), ProviderID: p.ID, FieldName: name, FieldValue: "v",
				FieldType: domain.FieldTypeText, DisplayOrder: order,
			})
		}
		_, err := uow.SaveChanges(ctx)
		return err
	})
	require.NoError(t, err)

	_ = s.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		list, err := uow.CustomFields().ListByProvider(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "first", list[0].FieldName)
		assert.Equal(t, "second", list[1].FieldName)
		assert.Equal(t, "third", list[2].FieldName)
		return nil
	})
}

func TestCreateIndexes_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	_, db := newTestStore(t)
	assert.Zero(t, createIndexes(db))
	assert.Empty(t, buf.String())

	empty, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	assert.Equal(t, len(postgresIndexes), createIndexes(empty))
	assert.Equal(t, len(postgresIndexes), strings.Count(buf.String(), `"message":"create index"`))
	assert.Contains(t, buf.String(), `"index":"service name index"`)
}
