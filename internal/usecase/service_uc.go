package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

const msgServiceNotFound = "Service not found."

var serviceSortKeys = query.SortKeys{
	"name":       "name",
	"hourlyrate": "hourly_rate",
	"createdat":  "created_at",
	"updatedat":  "updated_at",
}

// ServiceUC owns the service lifecycle. Country codes attached to a service
// are checked against the reference set and mirrored locally in the same
// transaction as the service write.
type ServiceUC struct {
	Store     domain.Transactor
	Countries *CountryUC
}

func requireProvider(ctx context.Context, uow domain.UnitOfWork, id uuid.UUID) error {
	exists, err := uow.Providers().Any(ctx, query.Eq("id", id))
	if err != nil {
		return err
	}
	if !exists {
		return fail(KindNotFound, "Provider with ID '%s' not found.", id)
	}
	return nil
}

func (uc *ServiceUC) Create(ctx context.Context, cmd CreateServiceCommand) (Response[*ServiceDTO], error) {
	cmd.Normalize()
	var out *ServiceDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		if err := requireProvider(ctx, uow, cmd.ProviderID); err != nil {
			return err
		}
		if _, err := uc.Countries.ensure(ctx, uow, cmd.CountryCodes); err != nil {
			return err
		}

		s := &domain.Service{
			ID:          uuid.New(),
			Name:        cmd.Name,
			HourlyRate:  cmd.HourlyRate,
			Description: cmd.Description,
			ProviderID:  cmd.ProviderID,
		}
		for _, code := range cmd.CountryCodes {
			s.Countries = append(s.Countries, domain.ServiceCountry{CountryCode: code})
		}
		uow.Services().Add(s)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}

		created, err := uow.Services().GetByID(ctx, s.ID)
		if err != nil {
			return err
		}
		dto := toServiceDTO(*created)
		out = &dto
		return nil
	})
	if err == nil {
		log.Info().Str("service_id", out.ID.String()).Strs("countries", cmd.CountryCodes).Msg("service created")
	}
	return respond(out, "Service created successfully.", err)
}

// Update overwrites the scalar fields and fully replaces the country
// associations with the supplied list; an empty list clears them.
func (uc *ServiceUC) Update(ctx context.Context, cmd UpdateServiceCommand) (Response[*ServiceDTO], error) {
	cmd.Normalize()
	var out *ServiceDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		services := uow.Services()
		s, err := services.GetByID(ctx, cmd.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, msgServiceNotFound)
		}
		if err != nil {
			return err
		}
		if err := requireProvider(ctx, uow, cmd.ProviderID); err != nil {
			return err
		}
		if _, err := uc.Countries.ensure(ctx, uow, cmd.CountryCodes); err != nil {
			return err
		}

		s.Name = cmd.Name
		s.HourlyRate = cmd.HourlyRate
		s.Description = cmd.Description
		s.ProviderID = cmd.ProviderID
		s.Provider, s.Countries = nil, nil
		services.Update(s)
		services.ReplaceCountries(s.ID, cmd.CountryCodes)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}

		updated, err := services.GetByID(ctx, s.ID)
		if err != nil {
			return err
		}
		dto := toServiceDTO(*updated)
		out = &dto
		return nil
	})
	return respond(out, "Service updated successfully.", err)
}

func (uc *ServiceUC) Delete(ctx context.Context, id uuid.UUID) (Response[bool], error) {
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		exists, err := uow.Services().Any(ctx, query.Eq("id", id))
		if err != nil {
			return err
		}
		if !exists {
			return fail(KindNotFound, msgServiceNotFound)
		}
		uow.Services().Remove(id)
		_, err = uow.SaveChanges(ctx)
		return err
	})
	return respond(err == nil, "Service deleted successfully.", err)
}

func (uc *ServiceUC) GetByID(ctx context.Context, id uuid.UUID) (Response[*ServiceDTO], error) {
	var out *ServiceDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		s, err := uow.Services().GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, msgServiceNotFound)
		}
		if err != nil {
			return err
		}
		dto := toServiceDTO(*s)
		out = &dto
		return nil
	})
	return respond(out, "Service found successfully.", err)
}

func (uc *ServiceUC) ListByProvider(ctx context.Context, providerID uuid.UUID) (Response[[]ServiceDTO], error) {
	var (
		out  []ServiceDTO
		name string
	)
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		p, err := uow.Providers().GetByID(ctx, providerID)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, "Provider with ID '%s' not found.", providerID)
		}
		if err != nil {
			return err
		}
		name = p.Name
		list, err := uow.Services().ListByProvider(ctx, providerID)
		if err != nil {
			return err
		}
		out = toServiceDTOs(list)
		return nil
	})
	return respond(out, fmt.Sprintf("Found %d services for provider '%s'.", len(out), name), err)
}

// List pages through services. The search term matches name or
// description; the provider filter narrows to one owner.
func (uc *ServiceUC) List(ctx context.Context, q ServiceListQuery) (PagedResponse[ServiceDTO], error) {
	page := query.NewPage(q.PageNumber, q.PageSize)
	filter := query.ContainsAny(q.SearchTerm, "name", "description")
	if q.ProviderID != nil {
		filter = query.And(filter, query.Eq("provider_id", *q.ProviderID))
	}
	order := serviceSortKeys.Resolve(q.OrderBy, q.OrderDescending)

	var (
		list  []domain.Service
		total int64
	)
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		var err error
		list, total, err = uow.Services().GetPaged(ctx, page, filter, &order)
		return err
	})
	if err != nil {
		return PagedResponse[ServiceDTO]{}, err
	}
	return PagedResponse[ServiceDTO]{
		IsSuccess:  true,
		Message:    "Services retrieved successfully.",
		Data:       toServiceDTOs(list),
		PageNumber: page.Number,
		TotalPages: page.TotalPages(total),
		TotalCount: total,
	}, nil
}
