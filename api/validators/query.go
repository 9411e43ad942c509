package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

// ParseQueryInt reads an optional integer query parameter bounded by
// [lo, hi]. A missing or blank value yields def.
func ParseQueryInt(r *http.Request, key string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < lo || value > hi {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be an integer between %d and %d", key, lo, hi).
			WithDetails(map[string]any{"field": key, "value": raw})
	}
	return value, nil
}
