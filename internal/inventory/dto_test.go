package inventory

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelvin-saputra/sievo-sub000/api/validators"
	pkgerrors "github.com/kelvin-saputra/sievo-sub000/pkg/errors"
)

func TestTotalQtyIsBounded(t *testing.T) {
	decode := func(raw string, dest any) error {
		return validators.DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw)), dest)
	}

	var create CreateItemRequest
	require.NoError(t, decode(`{"name":"Banquet chair","total_qty":1000000,"unit_price":"15000"}`, &create))

	err := decode(`{"name":"Banquet chair","total_qty":2147483648,"unit_price":"15000"}`, &create)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var update UpdateItemRequest
	err = decode(`{"total_qty":1000001}`, &update)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
