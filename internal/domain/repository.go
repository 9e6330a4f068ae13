package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phenrril/backoffice/internal/domain/query"
)

// Repository is the CRUD and query surface shared by every aggregate.
// Add, Update and Remove only stage changes; they reach the store when the
// owning unit of work saves.
type Repository[T any, K comparable] interface {
	GetByID(ctx context.Context, id K) (*T, error)
	GetAll(ctx context.Context) ([]T, error)
	Find(ctx context.Context, p query.Predicate) ([]T, error)
	// FirstOrDefault returns nil without error when nothing matches.
	FirstOrDefault(ctx context.Context, p query.Predicate) (*T, error)
	Add(entity *T)
	Update(entity *T)
	Remove(id K)
	Any(ctx context.Context, p query.Predicate) (bool, error)
	Count(ctx context.Context, p query.Predicate) (int64, error)
	// GetPaged counts matches before applying the page window. A nil order
	// sorts by creation time, newest first.
	GetPaged(ctx context.Context, page query.Page, filter query.Predicate, order *query.Order) ([]T, int64, error)
}

type ProviderRepository interface {
	Repository[Provider, uuid.UUID]
	GetByNit(ctx context.Context, nit string) (*Provider, error)
	// GetWithDetails loads services and custom fields.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*Provider, error)
	// NitTaken reports whether another provider than exclude uses nit.
	NitTaken(ctx context.Context, nit string, exclude uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
}

type ServiceRepository interface {
	Repository[Service, uuid.UUID]
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]Service, error)
	// ReplaceCountries stages removal of every association of the service
	// followed by one new association per code.
	ReplaceCountries(serviceID uuid.UUID, codes []string)
}

type CountryRepository interface {
	Repository[Country, string]
	ExistingCodes(ctx context.Context, codes []string) (map[string]bool, error)
}

type CustomFieldRepository interface {
	Repository[ProviderCustomField, uuid.UUID]
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]ProviderCustomField, error)
}

// UnitOfWork groups the repositories behind one persistence session.
type UnitOfWork interface {
	Providers() ProviderRepository
	Services() ServiceRepository
	Countries() CountryRepository
	CustomFields() CustomFieldRepository
	// SaveChanges stamps audit fields on staged entities and writes them in
	// staging order. It returns the number of changes written.
	SaveChanges(ctx context.Context) (int, error)
}

// Transactor runs fn inside one transaction. The transaction commits only
// when fn returns nil and ctx is still live.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(uow UnitOfWork) error) error
}

// CountryInfo is one entry of the external country reference set.
type CountryInfo struct {
	Code    string
	Alpha3  string
	Name    string
	FlagURL string
}

type CountrySource interface {
	FetchAll(ctx context.Context) ([]CountryInfo, error)
	// FetchByCode returns ErrNotFound when the source has no such code.
	FetchByCode(ctx context.Context, code string) (*CountryInfo, error)
}

type TokenIssuer interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
	ExpirationHorizon() time.Time
}

// ActorLookup resolves who is acting for audit stamping.
type ActorLookup interface {
	Actor(ctx context.Context) string
}
