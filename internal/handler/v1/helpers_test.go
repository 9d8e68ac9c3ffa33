package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lguhealth/brgycare/internal/domain/child"
	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
	"github.com/lguhealth/brgycare/internal/service"
)

func TestRespondServiceError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"child not found", child.ErrChildNotFound, http.StatusNotFound},
		{"vaccine not found", vaccine.ErrVaccineNotFound, http.StatusNotFound},
		{"dose not found", immunization.ErrDoseNotFound, http.StatusNotFound},
		{"duplicate vaccine", vaccine.ErrVaccineAlreadyExists, http.StatusConflict},
		{"insufficient stock", vaccine.ErrInsufficientStock, http.StatusConflict},
		{"invalid dose", immunization.ErrInvalidDose, http.StatusBadRequest},
		{"invalid transition", immunization.ErrInvalidTransition, http.StatusBadRequest},
		{"miss reason required", immunization.ErrMissReasonRequired, http.StatusBadRequest},
		{"not missed", immunization.ErrNotMissed, http.StatusBadRequest},
		{"invalid quantity", vaccine.ErrInvalidQuantity, http.StatusBadRequest},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unknown", errors.New("db connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tc.err)
			require.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRespondServiceError_InsufficientStockCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, vaccine.ErrInsufficientStock)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestRespondServiceError_ValidationFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, &service.ValidationError{Fields: []string{"child_id is required"}})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, []string{"child_id is required"}, body.Fields)
}

func TestRespondServiceError_InternalErrorHidesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondServiceError(c, errors.New("pq: relation does not exist"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "internal server error", body.Error)
}
