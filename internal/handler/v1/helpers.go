package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lguhealth/brgycare/internal/domain"
	"github.com/lguhealth/brgycare/internal/domain/child"
	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
	"github.com/lguhealth/brgycare/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, child.ErrChildNotFound),
		errors.Is(err, vaccine.ErrVaccineNotFound),
		errors.Is(err, immunization.ErrDoseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, vaccine.ErrVaccineAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, vaccine.ErrInsufficientStock):
		// Actionable: staff may mark the dose missed or wait for restock.
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "INSUFFICIENT_STOCK",
		})

	case errors.Is(err, immunization.ErrInvalidDose),
		errors.Is(err, immunization.ErrInvalidTransition),
		errors.Is(err, immunization.ErrMissReasonRequired),
		errors.Is(err, immunization.ErrNotMissed),
		errors.Is(err, immunization.ErrScheduleDateZero),
		errors.Is(err, vaccine.ErrInvalidQuantity),
		errors.Is(err, vaccine.ErrInvalidCategory):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// caller returns the verified identity the auth middleware stored.
func caller(c *gin.Context) *domain.Claims {
	if v, ok := c.Get(claimsContextKey); ok {
		if claims, ok := v.(*domain.Claims); ok {
			return claims
		}
	}
	return &domain.Claims{}
}
