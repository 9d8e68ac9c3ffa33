package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/service"
)

const dateLayout = "2006-01-02"

type ImmunizationHandler struct {
	schedules   *service.ScheduleService
	eligibility *service.EligibilityService
	log         *zap.Logger
}

func NewImmunizationHandler(schedules *service.ScheduleService, eligibility *service.EligibilityService, log *zap.Logger) *ImmunizationHandler {
	return &ImmunizationHandler{schedules: schedules, eligibility: eligibility, log: log}
}

type availableVaccineResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
}

type doseResponse struct {
	ID              uuid.UUID  `json:"id"`
	ChildID         uuid.UUID  `json:"child_id"`
	VaccineID       *uuid.UUID `json:"vaccine_id,omitempty"`
	VaccineName     string     `json:"vaccine_name"`
	DoseLabel       string     `json:"dose_label"`
	ScheduleDate    string     `json:"schedule_date"`
	ScheduleTime    string     `json:"schedule_time,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	NextDueDate     *string    `json:"next_due_date,omitempty"`
	BatchNumber     string     `json:"batch_number,omitempty"`
	AdministeredBy  string     `json:"administered_by,omitempty"`
	AdministeredAt  *time.Time `json:"administered_at,omitempty"`
	MissReason      string     `json:"miss_reason,omitempty"`
	MissedAt        *time.Time `json:"missed_at,omitempty"`
	RescheduledFrom *uuid.UUID `json:"rescheduled_from,omitempty"`
	Overdue         bool       `json:"overdue"`
}

func toDoseResponse(d *immunization.ScheduledDose) doseResponse {
	resp := doseResponse{
		ID:              d.ID,
		ChildID:         d.ChildID,
		VaccineID:       d.VaccineID,
		VaccineName:     d.VaccineName,
		DoseLabel:       d.DoseLabel,
		ScheduleDate:    d.ScheduleDate.Format(dateLayout),
		ScheduleTime:    d.ScheduleTime,
		Status:          string(d.Status),
		Notes:           d.Notes,
		BatchNumber:     d.BatchNumber,
		AdministeredBy:  d.AdministeredBy,
		AdministeredAt:  d.AdministeredAt,
		MissReason:      d.MissReason,
		MissedAt:        d.MissedAt,
		RescheduledFrom: d.RescheduledFrom,
		Overdue:         d.IsOverdueAt(time.Now()),
	}
	if d.NextDueDate != nil {
		s := d.NextDueDate.Format(dateLayout)
		resp.NextDueDate = &s
	}
	return resp
}

// ListAvailableVaccines handles GET /children/:id/vaccines.
func (h *ImmunizationHandler) ListAvailableVaccines(c *gin.Context) {
	childID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	vaccines, err := h.eligibility.AvailableVaccines(c.Request.Context(), childID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]availableVaccineResponse, 0, len(vaccines))
	for _, v := range vaccines {
		out = append(out, availableVaccineResponse{ID: v.ID, Name: v.Name, Category: string(v.Category)})
	}
	respondOK(c, out)
}

// ListAvailableDoses handles GET /children/:id/vaccines/:vaccineId/doses.
// An empty list means the child is fully covered for this vaccine.
func (h *ImmunizationHandler) ListAvailableDoses(c *gin.Context) {
	childID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	vaccineID, ok := parseUUID(c, "vaccineId")
	if !ok {
		return
	}

	doses, err := h.eligibility.AvailableDoses(c.Request.Context(), childID, vaccineID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doses)
}

type scheduleDoseRequest struct {
	ChildID      uuid.UUID `json:"child_id" binding:"required"`
	VaccineID    uuid.UUID `json:"vaccine_id" binding:"required"`
	DoseLabel    string    `json:"dose_label" binding:"required"`
	ScheduleDate string    `json:"schedule_date" binding:"required"`
	ScheduleTime string    `json:"schedule_time"`
	Notes        string    `json:"notes"`
}

// ScheduleDose handles POST /immunizations.
func (h *ImmunizationHandler) ScheduleDose(c *gin.Context) {
	var req scheduleDoseRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := time.Parse(dateLayout, req.ScheduleDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "schedule_date must be YYYY-MM-DD")
		return
	}

	cl := caller(c)
	d, err := h.schedules.ScheduleDose(c.Request.Context(), &immunization.ScheduleDoseCommand{
		ChildID:      req.ChildID,
		VaccineID:    req.VaccineID,
		DoseLabel:    req.DoseLabel,
		ScheduleDate: date,
		ScheduleTime: req.ScheduleTime,
		Notes:        req.Notes,
		CreatedBy:    cl.UserID,
	}, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toDoseResponse(d))
}

type completeDoseRequest struct {
	BatchNumber    string `json:"batch_number"`
	AdministeredBy string `json:"administered_by" binding:"required"`
	Notes          string `json:"notes"`
}

type completeDoseResponse struct {
	Dose           doseResponse `json:"dose"`
	RemainingDoses []string     `json:"remaining_doses"`
	// FurtherDoseDue flags a multi-dose series that still has doses owed,
	// even when no interval policy proposed a next-due date.
	FurtherDoseDue bool `json:"further_dose_due"`
}

// CompleteDose handles POST /immunizations/:id/complete.
func (h *ImmunizationHandler) CompleteDose(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req completeDoseRequest
	if !bindJSON(c, &req) {
		return
	}

	cl := caller(c)
	d, remaining, err := h.schedules.CompleteDose(c.Request.Context(), id, &immunization.CompleteDoseCommand{
		BatchNumber:    req.BatchNumber,
		AdministeredBy: req.AdministeredBy,
		Notes:          req.Notes,
		CompletedBy:    cl.UserID,
	}, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, completeDoseResponse{
		Dose:           toDoseResponse(d),
		RemainingDoses: remaining,
		FurtherDoseDue: len(remaining) > 0,
	})
}

type missDoseRequest struct {
	Reason string `json:"reason" binding:"required"`
	Notes  string `json:"notes"`
}

// MarkDoseMissed handles POST /immunizations/:id/miss.
func (h *ImmunizationHandler) MarkDoseMissed(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req missDoseRequest
	if !bindJSON(c, &req) {
		return
	}

	cl := caller(c)
	d, err := h.schedules.MarkDoseMissed(c.Request.Context(), id, &immunization.MissDoseCommand{
		Reason:   req.Reason,
		Notes:    req.Notes,
		MissedBy: cl.UserID,
	}, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoseResponse(d))
}

type rescheduleDoseRequest struct {
	NewDate string `json:"new_date" binding:"required"`
	NewTime string `json:"new_time"`
}

// RescheduleDose handles POST /immunizations/:id/reschedule.
func (h *ImmunizationHandler) RescheduleDose(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleDoseRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := time.Parse(dateLayout, req.NewDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "new_date must be YYYY-MM-DD")
		return
	}

	cl := caller(c)
	d, err := h.schedules.RescheduleDose(c.Request.Context(), id, &immunization.RescheduleDoseCommand{
		NewDate:       date,
		NewTime:       req.NewTime,
		RescheduledBy: cl.UserID,
	}, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toDoseResponse(d))
}

// GetDose handles GET /immunizations/:id.
func (h *ImmunizationHandler) GetDose(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	cl := caller(c)
	d, err := h.schedules.GetDose(c.Request.Context(), id, cl.UserID, string(cl.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toDoseResponse(d))
}

// ListDoses handles GET /immunizations.
func (h *ImmunizationHandler) ListDoses(c *gin.Context) {
	q := &immunization.ListDosesQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("child_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid child_id")
			return
		}
		q.ChildID = &id
	}
	if raw := c.Query("vaccine_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid vaccine_id")
			return
		}
		q.VaccineID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := immunization.Status(raw)
		if !status.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		q.Status = &status
	}
	if c.Query("overdue") == "true" {
		q.Overdue = true
	}

	page, err := h.schedules.ListDoses(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	doses := make([]doseResponse, 0, len(page.Doses))
	for _, d := range page.Doses {
		doses = append(doses, toDoseResponse(d))
	}

	respondOK(c, gin.H{
		"doses":       doses,
		"total_count": page.TotalCount,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	})
}
