package controllers

import (
	"net/http"

	"github.com/kelvin-saputra/sievo-sub000/api/middleware"
	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/proposals"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

func proposalActor(p middleware.Principal) proposals.Actor {
	return proposals.Actor{UserID: p.UserID, OrganizationID: p.OrganizationID, Role: p.Role}
}

func ProposalCreate(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body proposals.CreateProposalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		proposal, err := svc.Create(r.Context(), proposalActor(p), body)
		respond(w, r, logg, http.StatusCreated, proposal, err)
	}
}

func ProposalGet(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "proposalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		proposal, err := svc.Get(r.Context(), p.OrganizationID, id)
		respond(w, r, logg, http.StatusOK, proposal, err)
	}
}

func ProposalUpdate(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "proposalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body proposals.UpdateProposalRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		proposal, err := svc.Update(r.Context(), p.OrganizationID, id, body)
		respond(w, r, logg, http.StatusOK, proposal, err)
	}
}

func ProposalChangeStatus(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "proposalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body proposals.ChangeStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		proposal, err := svc.ChangeStatus(r.Context(), proposalActor(p), id, body)
		respond(w, r, logg, http.StatusOK, proposal, err)
	}
}

func ProposalDelete(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "proposalId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		respondDeleted(w, r, logg, svc.Delete(r.Context(), p.OrganizationID, id))
	}
}

func ProposalList(svc proposals.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var filters proposals.ListFilters
		if filters.EventID, err = queryUUID(r, "event_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.Status, err = queryEnum(r, "status", enums.ProposalStatus.IsValid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), p.OrganizationID, filters, page)
		respond(w, r, logg, http.StatusOK, result, err)
	}
}
