package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/vaccine"
	"github.com/lguhealth/brgycare/internal/service"
)

type VaccineHandler struct {
	inventory *service.InventoryService
	log       *zap.Logger
}

func NewVaccineHandler(inventory *service.InventoryService, log *zap.Logger) *VaccineHandler {
	return &VaccineHandler{inventory: inventory, log: log}
}

type createVaccineRequest struct {
	Name         string `json:"name" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description"`
	InitialStock int    `json:"initial_stock"`
	MinStock     int    `json:"min_stock"`
}

// CreateVaccine handles POST /vaccines.
func (h *VaccineHandler) CreateVaccine(c *gin.Context) {
	var req createVaccineRequest
	if !bindJSON(c, &req) {
		return
	}

	cl := caller(c)
	v, err := h.inventory.CreateVaccine(c.Request.Context(), &vaccine.CreateVaccineCommand{
		Name:         req.Name,
		Category:     vaccine.Category(req.Category),
		Description:  req.Description,
		InitialStock: req.InitialStock,
		MinStock:     req.MinStock,
		CreatedBy:    cl.UserID,
	}, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, v)
}

// ListVaccines handles GET /vaccines.
func (h *VaccineHandler) ListVaccines(c *gin.Context) {
	vaccines, err := h.inventory.ListVaccines(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, vaccines)
}

// GetVaccine handles GET /vaccines/:id.
func (h *VaccineHandler) GetVaccine(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	v, err := h.inventory.GetVaccine(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, v)
}

// ListLowStock handles GET /vaccines/low-stock.
func (h *VaccineHandler) ListLowStock(c *gin.Context) {
	vaccines, err := h.inventory.ListLowStock(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, vaccines)
}

type restockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// Restock handles POST /vaccines/:id/restock.
func (h *VaccineHandler) Restock(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req restockRequest
	if !bindJSON(c, &req) {
		return
	}

	cl := caller(c)
	v, err := h.inventory.Restock(c.Request.Context(), id, req.Quantity, req.Reason, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, v)
}

type adjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdjustStock handles POST /vaccines/:id/adjust.
func (h *VaccineHandler) AdjustStock(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req adjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	cl := caller(c)
	v, err := h.inventory.AdjustStock(c.Request.Context(), id, &vaccine.AdjustStockCommand{
		Delta:      req.Delta,
		Reason:     req.Reason,
		RecordedBy: cl.UserID,
	}, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, v)
}

// ListMovements handles GET /vaccines/:id/movements.
func (h *VaccineHandler) ListMovements(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	movements, err := h.inventory.ListMovements(c.Request.Context(), id, parseQueryInt(c, "limit", 100))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, movements)
}
