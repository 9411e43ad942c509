package budgets

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

func TestItemQuantityIsBounded(t *testing.T) {
	body := func(qty string) string {
		return `{"category_id":"` + uuid.NewString() + `","source":{"source_type":"inventory","source_id":"` + uuid.NewString() + `"},"quantity":` + qty + `}`
	}
	decode := func(raw string, dest any) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
		return validators.DecodeJSONBody(req, dest)
	}

	var plan CreatePlanItemRequest
	require.NoError(t, decode(body("1000000"), &plan))

	err := decode(body("3000000000"), &plan)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	details, _ := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "must be at most 1000000", details["quantity"])

	var actual CreateActualItemRequest
	err = decode(body("1000001"), &actual)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var update UpdatePlanItemRequest
	err = decode(`{"quantity":2147483648}`, &update)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
