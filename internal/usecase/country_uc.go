package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/domain"
)

const (
	msgCountriesUnavailable = "Connection error with external countries API. Please try again."
	msgCountriesMalformed   = "External API response does not have the expected format"
)

// CountryUC fronts the external country reference set and its local mirror.
type CountryUC struct {
	Store  domain.Transactor
	Source domain.CountrySource
}

// sourceFailure keeps "could not reach" apart from "unexpected shape".
func sourceFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrExternalUnavailable):
		return fail(KindUnavailable, msgCountriesUnavailable)
	case errors.Is(err, domain.ErrExternalMalformed):
		return fail(KindUpstream, msgCountriesMalformed)
	}
	return err
}

func (uc *CountryUC) List(ctx context.Context) (Response[[]CountryDTO], error) {
	list, err := uc.Source.FetchAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("countries fetch failed")
		return respond[[]CountryDTO](nil, "", sourceFailure(err))
	}
	out := make([]CountryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, infoToCountryDTO(c))
	}
	return respond(out, plural(len(out), "country", "countries")+" successfully retrieved from external API.", nil)
}

func (uc *CountryUC) GetByCode(ctx context.Context, code string) (Response[*CountryDTO], error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return respond[*CountryDTO](nil, "", fail(KindValidation, "Country code is required."))
	}
	c, err := uc.Source.FetchByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return respond[*CountryDTO](nil, "", fail(KindNotFound, "Country with code '%s' not found.", code))
	}
	if err != nil {
		return respond[*CountryDTO](nil, "", sourceFailure(err))
	}
	dto := infoToCountryDTO(*c)
	return respond(&dto, "Country '"+dto.Name+"' successfully retrieved from external API.", nil)
}

// ListLocal returns the mirrored countries ordered by name.
func (uc *CountryUC) ListLocal(ctx context.Context) (Response[[]CountryDTO], error) {
	var out []CountryDTO
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		list, err := uow.Countries().GetAll(ctx)
		if err != nil {
			return err
		}
		out = make([]CountryDTO, 0, len(list))
		for _, c := range list {
			out = append(out, toCountryDTO(c))
		}
		return nil
	})
	return respond(out, plural(len(out), "country", "countries")+" stored locally.", err)
}

// Sync validates codes against the reference set and mirrors the ones not
// yet stored. Any unknown code aborts the whole call.
func (uc *CountryUC) Sync(ctx context.Context, codes []string) (Response[*SyncCountriesDTO], error) {
	codes = normalizeCodes(codes)
	if len(codes) == 0 {
		return respond[*SyncCountriesDTO](nil, "", fail(KindValidation, "Country code is required."))
	}
	var created []string
	err := uc.Store.WithinTransaction(ctx, func(uow domain.UnitOfWork) error {
		var err error
		created, err = uc.ensure(ctx, uow, codes)
		return err
	})
	if err != nil {
		return respond[*SyncCountriesDTO](nil, "", err)
	}
	out := &SyncCountriesDTO{Synchronized: created, Count: len(created)}
	if len(created) == 0 {
		out.Synchronized = []string{}
		return respond(out, "All countries already exist in the database.", nil)
	}
	log.Info().Strs("codes", created).Msg("countries synchronized")
	return respond(out, fmt.Sprintf("%d country(ies) synchronized successfully.", len(created)), nil)
}

// ensure runs validate-then-sync inside the caller's unit of work and
// returns the codes it inserted. An empty list is a no-op that never
// reaches the reference source.
func (uc *CountryUC) ensure(ctx context.Context, uow domain.UnitOfWork, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	ref, err := uc.Source.FetchAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("countries fetch failed")
		return nil, sourceFailure(err)
	}
	index := make(map[string]domain.CountryInfo, len(ref))
	for _, c := range ref {
		index[strings.ToUpper(c.Code)] = c
	}
	for _, code := range codes {
		if _, ok := index[code]; !ok {
			return nil, fail(KindValidation, "Country code '%s' is not valid.", code)
		}
	}

	countries := uow.Countries()
	existing, err := countries.ExistingCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	var created []string
	for _, code := range codes {
		if existing[code] {
			continue
		}
		c := infoToCountry(index[code])
		c.Code = code
		countries.Add(&c)
		created = append(created, code)
	}
	if len(created) > 0 {
		if _, err := uow.SaveChanges(ctx); err != nil {
			return nil, err
		}
	}
	return created, nil
}
