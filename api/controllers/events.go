package controllers

import (
	"net/http"
	"strings"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/events"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body events.CreateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Create(r.Context(), p.OrganizationID, p.UserID, body)
		respond(w, r, logg, http.StatusCreated, event, err)
	}
}

// EventGet hides events a freelancer is not assigned to.
func EventGet(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Get(r.Context(), p.OrganizationID, events.Viewer{UserID: p.UserID, Role: p.Role}, id)
		respond(w, r, logg, http.StatusOK, event, err)
	}
}

func EventUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body events.UpdateEventRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.Update(r.Context(), p.OrganizationID, id, body)
		respond(w, r, logg, http.StatusOK, event, err)
	}
}

func EventDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		respondDeleted(w, r, logg, svc.Delete(r.Context(), p.OrganizationID, id))
	}
}

func EventChangeStatus(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body events.ChangeStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		event, err := svc.ChangeStatus(r.Context(), p.OrganizationID, id, body)
		respond(w, r, logg, http.StatusOK, event, err)
	}
}

// EventList accepts ?status=, ?q=, and a ?from=&to= date window.
func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
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
		filters := events.ListFilters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if filters.Status, err = queryEnum(r, "status", enums.EventStatus.IsValid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.From, err = queryTime(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.To, err = queryTime(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), p.OrganizationID, events.Viewer{UserID: p.UserID, Role: p.Role}, filters, page)
		respond(w, r, logg, http.StatusOK, result, err)
	}
}
