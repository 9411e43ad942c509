package controllers

import (
	"net/http"
	"strings"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	"github.com/kelvin-saputra/sievo-sub000/internal/contacts"
	"github.com/kelvin-saputra/sievo-sub000/pkg/enums"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

func ContactCreate(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body contacts.CreateContactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contact, err := svc.Create(r.Context(), p.OrganizationID, p.UserID, body)
		respond(w, r, logg, http.StatusCreated, contact, err)
	}
}

func ContactGet(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contact, err := svc.Get(r.Context(), p.OrganizationID, id)
		respond(w, r, logg, http.StatusOK, contact, err)
	}
}

func ContactUpdate(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body contacts.UpdateContactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		contact, err := svc.Update(r.Context(), p.OrganizationID, id, body)
		respond(w, r, logg, http.StatusOK, contact, err)
	}
}

func ContactDelete(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "contactId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		respondDeleted(w, r, logg, svc.Delete(r.Context(), p.OrganizationID, id))
	}
}

// ContactList supports ?type=client|vendor|partner|other and ?q= search.
func ContactList(svc contacts.Service, logg *logger.Logger) http.HandlerFunc {
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
		contactType, err := queryEnum(r, "type", enums.ContactType.IsValid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters := contacts.ListFilters{Type: contactType, Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		result, err := svc.List(r.Context(), p.OrganizationID, filters, page)
		respond(w, r, logg, http.StatusOK, result, err)
	}
}
