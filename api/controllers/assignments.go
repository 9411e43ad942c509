package controllers

import (
	"net/http"

	"github.com/kelvin-saputra/sievo-sub000/api/middleware"
	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/hr"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

func hrActor(p middleware.Principal) hr.Actor {
	return hr.Actor{UserID: p.UserID, OrganizationID: p.OrganizationID, Role: p.Role}
}

func AssignmentCreate(svc hr.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body hr.AssignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignment, err := svc.Assign(r.Context(), hrActor(p), eventID, body)
		respond(w, r, logg, http.StatusCreated, assignment, err)
	}
}

func AssignmentUpdate(svc hr.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := urlUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body hr.UpdateAssignmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignment, err := svc.Update(r.Context(), p.OrganizationID, eventID, userID, body)
		respond(w, r, logg, http.StatusOK, assignment, err)
	}
}

func AssignmentDelete(svc hr.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := urlUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		respondDeleted(w, r, logg, svc.Unassign(r.Context(), p.OrganizationID, eventID, userID))
	}
}

func EventStaff(svc hr.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		eventID, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		staff, err := svc.Staff(r.Context(), p.OrganizationID, eventID)
		respond(w, r, logg, http.StatusOK, staff, err)
	}
}

// UserSchedule lists a member's assignments. {userId} may be "me".
func UserSchedule(svc hr.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID := p.UserID
		if chiParam(r, "userId") != "me" {
			if userID, err = urlUUID(r, "userId"); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		var filters hr.ScheduleFilters
		if filters.From, err = queryTime(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.To, err = queryTime(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		schedule, err := svc.Schedule(r.Context(), hrActor(p), userID, filters)
		respond(w, r, logg, http.StatusOK, schedule, err)
	}
}
