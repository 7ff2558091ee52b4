package response_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employee-directory/internal/domain"
	"employee-directory/internal/transport/http/response"
)

func TestEnvelopeJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(response.OK(map[string]int{"id": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"id":1}}`, string(b))

	b, err = json.Marshal(response.Error(http.StatusNotFound, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Not found"}`, string(b))

	b, err = json.Marshal(response.Invalid("Validation failed", []domain.FieldError{{Field: "email", Message: "bad"}}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Validation failed","errors":[{"field":"email","message":"bad"}]}`, string(b))
}

func TestMessageForUnknownStatus(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "I'm a teapot", response.MessageFor(http.StatusTeapot))
}
