package httpserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/backoffice/internal/adapters/report"
	"github.com/phenrril/backoffice/internal/usecase"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cmd usecase.LoginCommand
	if !decode(w, r, &cmd) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.Auth.Login(r.Context(), cmd)
	if err == nil && !res.IsSuccess {
		s.metrics.LoginFailed()
	}
	reply(w, r, res, err, http.StatusOK)
}

// providers

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.h.Providers.List(r.Context(), usecase.ProviderListQuery{
		PageNumber:      intParam(r, "pageNumber"),
		PageSize:        intParam(r, "pageSize"),
		SearchTerm:      q.Get("searchTerm"),
		Nit:             q.Get("nit"),
		Email:           q.Get("email"),
		OrderBy:         q.Get("orderBy"),
		OrderDescending: boolParam(r, "orderDescending"),
	})
	replyPaged(w, r, res, err)
}

func (s *Server) handleCreateProvider(w http.ResponseWriter, r *http.Request) {
	var cmd usecase.CreateProviderCommand
	if !decode(w, r, &cmd) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.Providers.Create(r.Context(), cmd)
	reply(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleGetProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.h.Providers.GetByID(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleProviderByNit(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Providers.GetByNit(r.Context(), mux.Vars(r)["nit"])
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleUpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var cmd usecase.UpdateProviderCommand
	if !decode(w, r, &cmd) || !matchRouteID(w, id, &cmd.ID) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.Providers.Update(r.Context(), cmd)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.h.Providers.Delete(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

// services

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	q := usecase.ServiceListQuery{
		PageNumber:      intParam(r, "pageNumber"),
		PageSize:        intParam(r, "pageSize"),
		SearchTerm:      r.URL.Query().Get("searchTerm"),
		OrderBy:         r.URL.Query().Get("orderBy"),
		OrderDescending: boolParam(r, "orderDescending"),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("providerId")); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid identifier.")
			return
		}
		q.ProviderID = &pid
	}
	res, err := s.h.Services.List(r.Context(), q)
	replyPaged(w, r, res, err)
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var cmd usecase.CreateServiceCommand
	if !decode(w, r, &cmd) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.Services.Create(r.Context(), cmd)
	reply(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.h.Services.GetByID(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleServicesByProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerId")
	if !ok {
		return
	}
	res, err := s.h.Services.ListByProvider(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var cmd usecase.UpdateServiceCommand
	if !decode(w, r, &cmd) || !matchRouteID(w, id, &cmd.ID) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.Services.Update(r.Context(), cmd)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.h.Services.Delete(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

// custom fields

func (s *Server) handleCreateCustomField(w http.ResponseWriter, r *http.Request) {
	var cmd usecase.CreateCustomFieldCommand
	if !decode(w, r, &cmd) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.CustomFields.Create(r.Context(), cmd)
	reply(w, r, res, err, http.StatusCreated)
}

func (s *Server) handleGetCustomField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.h.CustomFields.GetByID(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleCustomFieldsByProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "providerId")
	if !ok {
		return
	}
	res, err := s.h.CustomFields.ListByProvider(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleUpdateCustomField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var cmd usecase.UpdateCustomFieldCommand
	if !decode(w, r, &cmd) || !matchRouteID(w, id, &cmd.ID) || !valid(w, r, &cmd) {
		return
	}
	res, err := s.h.CustomFields.Update(r.Context(), cmd)
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleDeleteCustomField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	res, err := s.h.CustomFields.Delete(r.Context(), id)
	reply(w, r, res, err, http.StatusOK)
}

// countries

func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Countries.List(r.Context())
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleLocalCountries(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Countries.ListLocal(r.Context())
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Countries.GetByCode(r.Context(), mux.Vars(r)["code"])
	reply(w, r, res, err, http.StatusOK)
}

// statistics

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Statistics.Summary(r.Context())
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleProvidersByCountry(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Statistics.ProvidersByCountry(r.Context())
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleServicesByCountry(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Statistics.ServicesByCountry(r.Context())
	reply(w, r, res, err, http.StatusOK)
}

func (s *Server) handleSummaryExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.h.Statistics.Summary(r.Context())
	if err != nil || !res.IsSuccess {
		reply(w, r, res, err, http.StatusOK)
		return
	}
	now := s.now()
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename(now))
	if err := report.WriteSummary(w, res.Data, now); err != nil {
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("summary export failed")
	}
}
