package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-backend/internal/billing"
	"fintrack-backend/internal/services"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 10},
		{name: "explicit", query: "page=3&limit=25", wantPage: 3, wantLimit: 25},
		{name: "zero page clamps to 1", query: "page=0&limit=5", wantPage: 1, wantLimit: 5},
		{name: "negative values clamp", query: "page=-2&limit=-1", wantPage: 1, wantLimit: 10},
		{name: "limit capped", query: "limit=5000", wantPage: 1, wantLimit: 100},
		{name: "garbage falls back", query: "page=abc&limit=xyz", wantPage: 1, wantLimit: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/clients?"+tt.query, nil)
			page, limit := parsePagination(r)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 5, totalPages(41, 10))
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: services.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "not owner", err: services.ErrNotOwner, wantStatus: http.StatusUnauthorized},
		{name: "bad credentials", err: services.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "duplicate user", err: services.ErrDuplicateUser, wantStatus: http.StatusConflict},
		{name: "duplicate client email", err: services.ErrDuplicateEmail, wantStatus: http.StatusConflict},
		{name: "invalid status", err: billing.ErrInvalidStatus, wantStatus: http.StatusBadRequest},
		{name: "empty items", err: billing.ErrNoItems, wantStatus: http.StatusBadRequest},
		{name: "invalid category", err: services.ErrInvalidCategory, wantStatus: http.StatusBadRequest},
		{name: "receipts disabled", err: services.ErrReceiptsDisabled, wantStatus: http.StatusServiceUnavailable},
		{name: "unknown error is opaque", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err, "Resource not found")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			if tt.wantStatus == http.StatusInternalServerError {
				// Internal details must never leak into the response
				assert.NotContains(t, body["message"], "pq:")
			}
		})
	}
}

func TestRespondServiceErrorDetailToggle(t *testing.T) {
	SetErrorDetail(true)
	defer SetErrorDetail(false)

	rec := httptest.NewRecorder()
	respondServiceError(rec, errors.New("pq: connection reset"), "Resource not found")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "pq: connection reset")

	SetErrorDetail(false)
	rec = httptest.NewRecorder()
	respondServiceError(rec, errors.New("pq: connection reset"), "Resource not found")

	body = map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["message"])
}
