package controllers

import (
	"net/http"

	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/internal/notifications"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
)

// ListNotifications returns the caller's notifications in the active organization.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
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
		unread, err := queryBool(r, "unread")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), notifications.ListParams{
			Recipient:  notifications.Recipient{OrganizationID: p.OrganizationID, UserID: p.UserID},
			Limit:      page.Limit,
			Cursor:     page.Cursor,
			UnreadOnly: unread,
		})
		respond(w, r, logg, http.StatusOK, result, err)
	}
}

func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := urlUUID(r, "notificationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		err = svc.MarkRead(r.Context(), notifications.Recipient{OrganizationID: p.OrganizationID, UserID: p.UserID}, id)
		respond(w, r, logg, http.StatusOK, map[string]bool{"read": true}, err)
	}
}

func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := principal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		count, err := svc.MarkAllRead(r.Context(), notifications.Recipient{OrganizationID: p.OrganizationID, UserID: p.UserID})
		respond(w, r, logg, http.StatusOK, map[string]int64{"updated": count}, err)
	}
}
