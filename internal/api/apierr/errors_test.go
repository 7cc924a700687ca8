package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/shadowsprint/internal/model"
)

func TestWriteErrorMapsValidationErrors(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{model.ErrMissingPlayerID, CodeInvalidRequest},
		{model.ErrInvalidLevel, CodeInvalidLevel},
		{fmt.Errorf("level 16: %w", model.ErrInvalidLevel), CodeInvalidLevel},
		{model.ErrInvalidTime, CodeInvalidTime},
		{model.ErrInvalidLanguage, CodeInvalidLanguage},
		{fmt.Errorf("input 2: %w", model.ErrInvalidInputKind), CodeInvalidInput},
		{model.ErrInvalidSegment, CodeInvalidInput},
		{NewInvalidRequestError("bad body"), CodeInvalidRequest},
	}

	for _, tc := range tests {
		t.Run(tc.code+"/"+tc.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tc.err)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.Equal(t, tc.err.Error(), resp.Error.Message)
		})
	}
}

func TestWriteErrorStatuses(t *testing.T) {
	for err, status := range map[error]int{
		NewNotFoundError():         http.StatusNotFound,
		NewMethodNotAllowedError(): http.StatusMethodNotAllowed,
		NewInternalError():         http.StatusInternalServerError,
	} {
		rr := httptest.NewRecorder()
		WriteError(rr, err)
		assert.Equal(t, status, rr.Code, err.Error())
	}
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("connection string leaked"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "leaked")
}
