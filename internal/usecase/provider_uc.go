package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

const (
	msgProviderNotFound = "Provider not found."
	msgFieldTypeInvalid = "Field type must be one of: text, number, date, boolean, email, url."
)

var providerSortKeys = query.SortKeys{
	"name":      "name",
	"nit":       "nit",
	"email":     "email",
	"createdat": "created_at",
	"updatedat": "updated_at",
}

type ProviderUC struct {
	Store domain.Transactor
}

func (uc *ProviderUC) Create(ctx context.Context, cmd CreateProviderCommand) (Response[*ProviderDTO], error) {
	cmd.Normalize()
	fieldTypes := make([]domain.FieldType, len(cmd.CustomFields))
	for i, in := range cmd.CustomFields {
		ft, ok := domain.ParseFieldType(in.FieldType)
		if !ok {
			return respond[*ProviderDTO](nil, "", fail(KindValidation, msgFieldTypeInvalid))
		}
		fieldTypes[i] = ft
	}

	var out *ProviderDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		providers := uow.Providers()
		taken, err := providers.NitTaken(ctx, cmd.Nit, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fail(KindConflict, "A provider with the specified NIT already exists.")
		}
		taken, err = providers.EmailTaken(ctx, cmd.Email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return fail(KindConflict, "A provider with the specified email already exists.")
		}

		p := &domain.Provider{ID: uuid.New(), Nit: cmd.Nit, Name: cmd.Name, Email: cmd.Email}
		providers.Add(p)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}

		if len(cmd.CustomFields) > 0 {
			for i, in := range cmd.CustomFields {
				uow.CustomFields().Add(&domain.ProviderCustomField{
					ID:           uuid.New(),
					ProviderID:   p.ID,
					FieldName:    in.FieldName,
					FieldValue:   in.FieldValue,
					FieldType:    fieldTypes[i],
					Description:  in.Description,
					DisplayOrder: in.DisplayOrder,
				})
			}
			if _, err := uow.SaveChanges(ctx); err != nil {
				return err
			}
		}

		created, err := providers.GetWithDetails(ctx, p.ID)
		if err != nil {
			return err
		}
		dto := toProviderDTO(*created)
		out = &dto
		return nil
	})
	if err == nil {
		log.Info().Str("provider_id", out.ID.String()).Int("custom_fields", len(out.CustomFields)).Msg("provider created")
	}
	return respond(out, "Provider created successfully.", err)
}

func (uc *ProviderUC) Update(ctx context.Context, cmd UpdateProviderCommand) (Response[*ProviderDTO], error) {
	cmd.Normalize()
	var out *ProviderDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		providers := uow.Providers()
		p, err := providers.GetByID(ctx, cmd.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, msgProviderNotFound)
		}
		if err != nil {
			return err
		}

		taken, err := providers.NitTaken(ctx, cmd.Nit, p.ID)
		if err != nil {
			return err
		}
		if taken {
			return fail(KindConflict, "Another provider with the specified NIT already exists.")
		}
		taken, err = providers.EmailTaken(ctx, cmd.Email, p.ID)
		if err != nil {
			return err
		}
		if taken {
			return fail(KindConflict, "Another provider with the specified email already exists.")
		}

		p.Nit, p.Name, p.Email = cmd.Nit, cmd.Name, cmd.Email
		providers.Update(p)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}

		updated, err := providers.GetWithDetails(ctx, p.ID)
		if err != nil {
			return err
		}
		dto := toProviderDTO(*updated)
		out = &dto
		return nil
	})
	return respond(out, "Provider updated successfully.", err)
}

func (uc *ProviderUC) Delete(ctx context.Context, id uuid.UUID) (Response[bool], error) {
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		exists, err := uow.Providers().Any(ctx, query.Eq("id", id))
		if err != nil {
			return err
		}
		if !exists {
			return fail(KindNotFound, msgProviderNotFound)
		}
		uow.Providers().Remove(id)
		_, err = uow.SaveChanges(ctx)
		return err
	})
	if err == nil {
		log.Info().Str("provider_id", id.String()).Msg("provider deleted")
	}
	return respond(err == nil, "Provider deleted successfully.", err)
}

func (uc *ProviderUC) GetByID(ctx context.Context, id uuid.UUID) (Response[*ProviderDTO], error) {
	var out *ProviderDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		p, err := uow.Providers().GetWithDetails(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, msgProviderNotFound)
		}
		if err != nil {
			return err
		}
		dto := toProviderDTO(*p)
		out = &dto
		return nil
	})
	return respond(out, "Provider found successfully.", err)
}

func (uc *ProviderUC) GetByNit(ctx context.Context, nit string) (Response[*ProviderDTO], error) {
	nit = strings.TrimSpace(nit)
	if nit == "" {
		return respond[*ProviderDTO](nil, "", fail(KindValidation, "NIT is required."))
	}
	var out *ProviderDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		p, err := uow.Providers().GetByNit(ctx, nit)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, msgProviderNotFound)
		}
		if err != nil {
			return err
		}
		dto := toProviderDTO(*p)
		out = &dto
		return nil
	})
	return respond(out, "Provider found successfully.", err)
}

// List pages through providers. The search term matches name, NIT or email
// as a case-insensitive substring; NIT and email filters are exact
// case-insensitive matches; all criteria are combined with AND.
func (uc *ProviderUC) List(ctx context.Context, q ProviderListQuery) (PagedResponse[ProviderDTO], error) {
	page := query.NewPage(q.PageNumber, q.PageSize)
	filter := query.And(
		query.ContainsAny(q.SearchTerm, "name", "nit", "email"),
		query.EqualFold("nit", q.Nit),
		query.EqualFold("email", q.Email),
	)
	order := providerSortKeys.Resolve(q.OrderBy, q.OrderDescending)

	var (
		list  []domain.Provider
		total int64
	)
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		var err error
		list, total, err = uow.Providers().GetPaged(ctx, page, filter, &order)
		return err
	})
	if err != nil {
		return PagedResponse[ProviderDTO]{}, err
	}

	dtos := make([]ProviderDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, toProviderDTO(p))
	}
	return PagedResponse[ProviderDTO]{
		IsSuccess:  true,
		Message:    "Providers retrieved successfully.",
		Data:       dtos,
		PageNumber: page.Number,
		TotalPages: page.TotalPages(total),
		TotalCount: total,
	}, nil
}
