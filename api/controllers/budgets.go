package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/budgets"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

// BudgetHandlers serves /events/{eventId}/budget and its sub-resources.
type BudgetHandlers struct {
	Service budgets.Service
	Logger  *logger.Logger
}

// scope resolves the principal's organization, the event id and, when
// itemParam is set, the nested item id.
func (h BudgetHandlers) scope(w http.ResponseWriter, r *http.Request, itemParam string) (org, eventID, itemID uuid.UUID, ok bool) {
	p, err := principal(r)
	if err == nil {
		eventID, err = urlUUID(r, "eventId")
	}
	if err == nil && itemParam != "" {
		itemID, err = urlUUID(r, itemParam)
	}
	if err != nil {
		responses.WriteError(r.Context(), h.Logger, w, err)
		return uuid.Nil, uuid.Nil, uuid.Nil, false
	}
	return p.OrganizationID, eventID, itemID, true
}

func (h BudgetHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, _, ok := h.scope(w, r, "")
		if !ok {
			return
		}
		budget, err := h.Service.Get(r.Context(), org, eventID)
		respond(w, r, h.Logger, http.StatusOK, budget, err)
	}
}

func (h BudgetHandlers) UpdateNotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, _, ok := h.scope(w, r, "")
		if !ok {
			return
		}
		var body budgets.UpdateBudgetRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		budget, err := h.Service.UpdateNotes(r.Context(), org, eventID, body)
		respond(w, r, h.Logger, http.StatusOK, budget, err)
	}
}

// ChangeStatus lets planners submit or return a budget; approving and
// closing are checked against the caller's role by the service.
func (h BudgetHandlers) ChangeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		eventID, err := urlUUID(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		var body budgets.ChangeStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		actor := budgets.Actor{UserID: p.UserID, OrganizationID: p.OrganizationID, Role: p.Role}
		budget, err := h.Service.ChangeStatus(r.Context(), actor, eventID, body)
		respond(w, r, h.Logger, http.StatusOK, budget, err)
	}
}

func (h BudgetHandlers) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, _, ok := h.scope(w, r, "")
		if !ok {
			return
		}
		summary, err := h.Service.Summary(r.Context(), org, eventID)
		respond(w, r, h.Logger, http.StatusOK, summary, err)
	}
}

func (h BudgetHandlers) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, _, ok := h.scope(w, r, "")
		if !ok {
			return
		}
		var body budgets.CreateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		category, err := h.Service.CreateCategory(r.Context(), org, eventID, body)
		respond(w, r, h.Logger, http.StatusCreated, category, err)
	}
}

func (h BudgetHandlers) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, categoryID, ok := h.scope(w, r, "categoryId")
		if !ok {
			return
		}
		var body budgets.UpdateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		category, err := h.Service.UpdateCategory(r.Context(), org, eventID, categoryID, body)
		respond(w, r, h.Logger, http.StatusOK, category, err)
	}
}

func (h BudgetHandlers) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, categoryID, ok := h.scope(w, r, "categoryId")
		if !ok {
			return
		}
		respondDeleted(w, r, h.Logger, h.Service.DeleteCategory(r.Context(), org, eventID, categoryID))
	}
}

func (h BudgetHandlers) CreatePlanItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, _, ok := h.scope(w, r, "")
		if !ok {
			return
		}
		var body budgets.CreatePlanItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		item, err := h.Service.CreatePlanItem(r.Context(), org, eventID, body)
		respond(w, r, h.Logger, http.StatusCreated, item, err)
	}
}

func (h BudgetHandlers) UpdatePlanItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, itemID, ok := h.scope(w, r, "itemId")
		if !ok {
			return
		}
		var body budgets.UpdatePlanItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		item, err := h.Service.UpdatePlanItem(r.Context(), org, eventID, itemID, body)
		respond(w, r, h.Logger, http.StatusOK, item, err)
	}
}

func (h BudgetHandlers) DeletePlanItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, itemID, ok := h.scope(w, r, "itemId")
		if !ok {
			return
		}
		respondDeleted(w, r, h.Logger, h.Service.DeletePlanItem(r.Context(), org, eventID, itemID))
	}
}

func (h BudgetHandlers) CreateActualItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, _, ok := h.scope(w, r, "")
		if !ok {
			return
		}
		var body budgets.CreateActualItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		item, err := h.Service.CreateActualItem(r.Context(), org, eventID, body)
		respond(w, r, h.Logger, http.StatusCreated, item, err)
	}
}

func (h BudgetHandlers) UpdateActualItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, itemID, ok := h.scope(w, r, "itemId")
		if !ok {
			return
		}
		var body budgets.UpdateActualItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), h.Logger, w, err)
			return
		}
		item, err := h.Service.UpdateActualItem(r.Context(), org, eventID, itemID, body)
		respond(w, r, h.Logger, http.StatusOK, item, err)
	}
}

func (h BudgetHandlers) DeleteActualItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		org, eventID, itemID, ok := h.scope(w, r, "itemId")
		if !ok {
			return
		}
		respondDeleted(w, r, h.Logger, h.Service.DeleteActualItem(r.Context(), org, eventID, itemID))
	}
}
