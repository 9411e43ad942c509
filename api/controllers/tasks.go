package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/api/middleware"
	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/tasks"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

func taskActor(p middleware.Principal) tasks.Actor {
	return tasks.Actor{UserID: p.UserID, OrganizationID: p.OrganizationID, Role: p.Role}
}

func TaskCreate(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
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
		var body tasks.CreateTaskRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		task, err := svc.Create(r.Context(), taskActor(p), eventID, body)
		respond(w, r, logg, http.StatusCreated, task, err)
	}
}

func TaskGet(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		task, err := svc.Get(r.Context(), taskActor(p), id)
		respond(w, r, logg, http.StatusOK, task, err)
	}
}

// TaskUpdate is open to freelancers; the service limits them to the status of their own tasks.
func TaskUpdate(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body tasks.UpdateTaskRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		task, err := svc.Update(r.Context(), taskActor(p), id, body)
		respond(w, r, logg, http.StatusOK, task, err)
	}
}

func TaskDelete(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "taskId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		respondDeleted(w, r, logg, svc.Delete(r.Context(), p.OrganizationID, id))
	}
}

// TaskList serves both /events/{eventId}/tasks and /tasks. The assignee
// filter takes a user id or "me".
func TaskList(svc tasks.Service, logg *logger.Logger) http.HandlerFunc {
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
		var filters tasks.ListFilters
		if raw := strings.TrimSpace(chiParam(r, "eventId")); raw != "" {
			eventID, err := urlUUID(r, "eventId")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filters.EventID = &eventID
		} else if filters.EventID, err = queryUUID(r, "event_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		switch assignee := strings.TrimSpace(r.URL.Query().Get("assignee")); assignee {
		case "":
		case "me":
			self := p.UserID
			filters.AssigneeID = &self
		default:
			id, err := uuid.Parse(assignee)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid query parameter").
					WithDetails(map[string]any{"field": "assignee"}))
				return
			}
			filters.AssigneeID = &id
		}
		if filters.Status, err = queryEnum(r, "status", enums.TaskStatus.IsValid); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), taskActor(p), filters, page)
		respond(w, r, logg, http.StatusOK, result, err)
	}
}
