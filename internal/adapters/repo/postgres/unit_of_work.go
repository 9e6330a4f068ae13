package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/backoffice/internal/domain"
)

type entryState int

const (
	entryAdded entryState = iota
	entryModified
	entryDeleted
)

func (s entryState) String() string {
	switch s {
	case entryAdded:
		return "added"
	case entryModified:
		return "modified"
	default:
		return "deleted"
	}
}

type entry struct {
	state  entryState
	entity any
	apply  func(tx *gorm.DB) error
}

// UnitOfWork is a request-scoped session. Repositories stage writes here and
// SaveChanges flushes them.
type UnitOfWork struct {
	db      *gorm.DB
	actor   domain.ActorLookup
	now     func() time.Time
	pending []entry

	providers    *ProviderRepo
	services     *ServiceRepo
	countries    *CountryRepo
	customFields *CustomFieldRepo
}

func newUnitOfWork(db *gorm.DB, actor domain.ActorLookup, now func() time.Time) *UnitOfWork {
	u := &UnitOfWork{db: db, actor: actor, now: now}
	u.providers = newProviderRepo(u)
	u.services = newServiceRepo(u)
	u.countries = newCountryRepo(u)
	u.customFields = newCustomFieldRepo(u)
	return u
}

func (u *UnitOfWork) Providers() domain.ProviderRepository { return u.providers }
func (u *UnitOfWork) Services() domain.ServiceRepository { return u.services }
func (u *UnitOfWork) Countries() domain.CountryRepository { return u.countries }
func (u *UnitOfWork) CustomFields() domain.CustomFieldRepository { return u.customFields }

func (u *UnitOfWork) stage(state entryState, entity any, apply func(tx *gorm.DB) error) {
	u.pending = append(u.pending, entry{state: state, entity: entity, apply: apply})
}

// SaveChanges stamps audit fields right before each write: creations get
// CreatedAt/CreatedBy, modifications get UpdatedAt/UpdatedBy.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}
	actor := u.actor.Actor(ctx)
	now := u.now().UTC()

	pending := u.pending
	u.pending = nil
	for i, e := range pending {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if a, ok := e.entity.(domain.Auditable); ok {
			switch e.state {
			case entryAdded:
				a.StampCreated(actor, now)
			case entryModified:
				a.StampUpdated(actor, now)
			}
		}
		if err := e.apply(u.db.WithContext(ctx)); err != nil {
			return i, fmt.Errorf("save %s %T: %w", e.state, e.entity, err)
		}
	}
	return len(pending), nil
}

// Store opens units of work on top of a gorm connection.
type Store struct {
	db    *gorm.DB
	actor domain.ActorLookup
	now   func() time.Time
}

func NewStore(db *gorm.DB, actor domain.ActorLookup) *Store {
	return &Store{db: db, actor: actor, now: time.Now}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(uow domain.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uow := newUnitOfWork(tx, s.actor, s.now)
		if err := fn(uow); err != nil {
			return err
		}
		if n := len(uow.pending); n > 0 {
			log.Warn().Int("pending", n).Msg("unit of work closed with unsaved changes")
		}
		return ctx.Err()
	})
}
