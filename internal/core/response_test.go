package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcura/internal/types"
)

func TestJSON_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(rec, req, http.StatusCreated, APIResponse{
		Data: map[string]string{"id": "field-6"},
		Meta: &types.ResponseMeta{Warnings: []string{"outline crosses itself"}},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"field-6"},"meta":{"warnings":["outline crosses itself"]}}`, rec.Body.String())
}

func TestJSON_MarshalFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(rec, req, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), string(types.ErrCodeInternalUnexpected))
}

func TestError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(types.WithRequestID(req.Context(), "req-1"))

	Error(rec, req, types.NewAppErrorWithDetails(types.ErrCodeNotFoundLoan, "loan not found", errors.New("db"), map[string]any{"id": "LN-9"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found_loan", body.Error.Code)
	assert.Equal(t, "loan not found", body.Error.Message)
	assert.Equal(t, "req-1", body.Error.RequestID)
	assert.Equal(t, "LN-9", body.Error.Details["id"])
}

func TestError_GenericHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Error(rec, req, errors.New("connection refused to 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
		Area int    `json:"area"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"name":"North","area":3}`},
		{name: "empty", body: ``, wantErr: "must not be empty"},
		{name: "syntax", body: `{"name":`, wantErr: "JSON"},
		{name: "unknown field", body: `{"nme":"x"}`, wantErr: "unknown field"},
		{name: "type mismatch", body: `{"area":"big"}`, wantErr: "invalid value"},
		{name: "trailing value", body: `{"name":"a"} {"name":"b"}`, wantErr: "single JSON object"},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", maxRequestBodySize) + `"}`, wantErr: "1MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst payload
			err := DecodeJSON(rec, req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "North", dst.Name)
				return
			}
			require.Error(t, err)
			assert.True(t, types.IsCode(err, errCodeValidationInvalidJSON))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
