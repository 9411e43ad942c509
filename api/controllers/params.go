package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kelvin-saputra/sievo-sub000/api/middleware"
	"github.com/kelvin-saputra/sievo-sub000/api/responses"
	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
	"github.com/kelvin-saputra/sievo-sub000/pkg/logger"
	"github.com/kelvin-saputra/sievo-sub000/pkg/pagination"
)

func principal(r *http.Request) (middleware.Principal, error) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok || p.UserID == uuid.Nil {
		return middleware.Principal{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if p.OrganizationID == uuid.Nil {
		return middleware.Principal{}, pkgerrors.New(pkgerrors.CodeForbidden, "organization context missing")
	}
	return p, nil
}

func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{Limit: limit, Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}, nil
}

func queryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid query parameter").
			WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

// queryTime accepts RFC3339 timestamps or plain dates.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a date").
		WithDetails(map[string]any{"field": key})
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "query parameter must be a boolean").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// queryEnum parses an optional enum filter using its IsValid check.
func queryEnum[T ~string](r *http.Request, key string, valid func(T) bool) (*T, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value := T(strings.ToLower(raw))
	if !valid(value) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return &value, nil
}

func respond(w http.ResponseWriter, r *http.Request, logg *logger.Logger, status int, data any, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, status, data)
}

func respondDeleted(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	respond(w, r, logg, http.StatusOK, map[string]string{"status": "deleted"}, err)
}

func chiParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}
