package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/domain/query"
)

const msgCustomFieldNotFound = "Custom field not found."

type CustomFieldUC struct {
	Store domain.Transactor
}

func (uc *CustomFieldUC) Create(ctx context.Context, cmd CreateCustomFieldCommand) (Response[*CustomFieldDTO], error) {
	cmd.Normalize()
	ft, ok := domain.ParseFieldType(cmd.FieldType)
	if !ok {
		return respond[*CustomFieldDTO](nil, "", fail(KindValidation, msgFieldTypeInvalid))
	}
	var out *CustomFieldDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		if err := requireProvider(ctx, uow, cmd.ProviderID); err != nil {
			return err
		}
		f := &domain.ProviderCustomField{
			ID:           uuid.New(),
			ProviderID:   cmd.ProviderID,
			FieldName:    cmd.FieldName,
			FieldValue:   cmd.FieldValue,
			FieldType:    ft,
			Description:  cmd.Description,
			DisplayOrder: cmd.DisplayOrder,
		}
		uow.CustomFields().Add(f)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}
		dto := toCustomFieldDTO(*f)
		out = &dto
		return nil
	})
	return respond(out, "Custom field created successfully.", err)
}

func (uc *CustomFieldUC) Update(ctx context.Context, cmd UpdateCustomFieldCommand) (Response[*CustomFieldDTO], error) {
	cmd.Normalize()
	ft, ok := domain.ParseFieldType(cmd.FieldType)
	if !ok {
		return respond[*CustomFieldDTO](nil, "", fail(KindValidation, msgFieldTypeInvalid))
	}
	var out *CustomFieldDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		fields := uow.CustomFields()
		f, err := fields.GetByID(ctx, cmd.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, msgCustomFieldNotFound)
		}
		if err != nil {
			return err
		}
		if err := requireProvider(ctx, uow, cmd.ProviderID); err != nil {
			return err
		}
		f.ProviderID = cmd.ProviderID
		f.FieldName = cmd.FieldName
		f.FieldValue = cmd.FieldValue
		f.FieldType = ft
		f.Description = cmd.Description
		f.DisplayOrder = cmd.DisplayOrder
		fields.Update(f)
		if _, err := uow.SaveChanges(ctx); err != nil {
			return err
		}
		dto := toCustomFieldDTO(*f)
		out = &dto
		return nil
	})
	return respond(out, "Custom field updated successfully.", err)
}

func (uc *CustomFieldUC) Delete(ctx context.Context, id uuid.UUID) (Response[bool], error) {
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		exists, err := uow.CustomFields().Any(ctx, query.Eq("id", id))
		if err != nil {
			return err
		}
		if !exists {
			return fail(KindNotFound, msgCustomFieldNotFound)
		}
		uow.CustomFields().Remove(id)
		_, err = uow.SaveChanges(ctx)
		return err
	})
	return respond(err == nil, "Custom field deleted successfully.", err)
}

func (uc *CustomFieldUC) GetByID(ctx context.Context, id uuid.UUID) (Response[*CustomFieldDTO], error) {
	var out *CustomFieldDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		f, err := uow.CustomFields().GetByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return fail(KindNotFound, "Custom field with ID '%s' not found.", id)
		}
		if err != nil {
			return err
		}
		dto := toCustomFieldDTO(*f)
		out = &dto
		return nil
	})
	if err != nil {
		return respond(out, "", err)
	}
	return respond(out, fmt.Sprintf("Custom field '%s' found successfully.", out.FieldName), nil)
}

// ListByProvider returns the provider's fields by display order, then name.
func (uc *CustomFieldUC) ListByProvider(ctx context.Context, providerID uuid.UUID) (Response[[]CustomFieldDTO], error) {
	var (
		out  []CustomFieldDTO
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
		list, err := uow.CustomFields().ListByProvider(ctx, providerID)
		if err != nil {
			return err
		}
		out = make([]CustomFieldDTO, 0, len(list))
		for _, f := range list {
			out = append(out, toCustomFieldDTO(f))
		}
		return nil
	})
	msg := fmt.Sprintf("Found %d custom field(s) for provider '%s'.", len(out), name)
	if len(out) == 0 {
		msg = fmt.Sprintf("No custom fields found for provider '%s'.", name)
	}
	return respond(out, msg, err)
}
