package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/httpresp"
	ucCalendar "github.com/BruksfildServices01/mascotico-api/internal/usecase/calendar"
	"github.com/BruksfildServices01/mascotico-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type CalendarHandler struct {
	listHours   *ucCalendar.ListOperatingHours
	updateHours *ucCalendar.UpdateOperatingHours
	batchHours  *ucCalendar.UpdateOperatingHoursBatch

	listSpecial   *ucCalendar.ListSpecialHours
	createSpecial *ucCalendar.CreateSpecialHours
	updateSpecial *ucCalendar.UpdateSpecialHours
	deleteSpecial *ucCalendar.DeleteSpecialHours

	listClosed   *ucCalendar.ListNonWorkingDays
	createClosed *ucCalendar.CreateNonWorkingDay
	deleteClosed *ucCalendar.DeleteNonWorkingDay

	errs *httperr.Responder
}

// CalendarUseCases groups the calendar administration use cases.
type CalendarUseCases struct {
	ListHours   *ucCalendar.ListOperatingHours
	UpdateHours *ucCalendar.UpdateOperatingHours
	BatchHours  *ucCalendar.UpdateOperatingHoursBatch

	ListSpecial   *ucCalendar.ListSpecialHours
	CreateSpecial *ucCalendar.CreateSpecialHours
	UpdateSpecial *ucCalendar.UpdateSpecialHours
	DeleteSpecial *ucCalendar.DeleteSpecialHours

	ListClosed   *ucCalendar.ListNonWorkingDays
	CreateClosed *ucCalendar.CreateNonWorkingDay
	DeleteClosed *ucCalendar.DeleteNonWorkingDay
}

func NewCalendarHandler(uc CalendarUseCases, errs *httperr.Responder) *CalendarHandler {
	return &CalendarHandler{
		listHours:     uc.ListHours,
		updateHours:   uc.UpdateHours,
		batchHours:    uc.BatchHours,
		listSpecial:   uc.ListSpecial,
		createSpecial: uc.CreateSpecial,
		updateSpecial: uc.UpdateSpecial,
		deleteSpecial: uc.DeleteSpecial,
		listClosed:    uc.ListClosed,
		createClosed:  uc.CreateClosed,
		deleteClosed:  uc.DeleteClosed,
		errs:          errs,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// OperatingHoursRequest omits activo to mean an open day.
type OperatingHoursRequest struct {
	ID     uint   `json:"id"`
	Start  string `json:"hora_inicio"`
	End    string `json:"hora_fin"`
	Active *bool  `json:"activo"`
}

func (r OperatingHoursRequest) input(id uint) ucCalendar.OperatingHoursInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return ucCalendar.OperatingHoursInput{
		ID:     id,
		Start:  r.Start,
		End:    r.End,
		Active: active,
	}
}

type OperatingHoursBatchRequest struct {
	Rows []OperatingHoursRequest `json:"horarios" binding:"required"`
}

type SpecialHoursRequest struct {
	BranchID    uint   `json:"sucursal_id" binding:"required"`
	Date        string `json:"fecha" binding:"required,fecha"`
	Start       string `json:"hora_inicio" binding:"required,hora"`
	End         string `json:"hora_fin" binding:"required,hora"`
	Description string `json:"descripcion"`
}

func (r SpecialHoursRequest) input() ucCalendar.SpecialHoursInput {
	return ucCalendar.SpecialHoursInput{
		BranchID:    r.BranchID,
		Date:        r.Date,
		Start:       r.Start,
		End:         r.End,
		Description: r.Description,
	}
}

type NonWorkingDayRequest struct {
	Date        string `json:"fecha" binding:"required,fecha"`
	Description string `json:"descripcion"`
	BranchID    *uint  `json:"sucursal_id"`
}

// ======================================================
// OPERATING HOURS
// ======================================================

func (h *CalendarHandler) ListOperatingHours(c *gin.Context) {
	branchID, err := queryID(c, "sucursal_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	rows, err := h.listHours.Execute(c.Request.Context(), branchID)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *CalendarHandler) UpdateOperatingHours(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	var req OperatingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	row, err := h.updateHours.Execute(c.Request.Context(), req.input(id))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, row)
}

// UpdateOperatingHoursBatch takes {"horarios": [{id, hora_inicio, hora_fin, activo}]}
// and applies every row or none.
func (h *CalendarHandler) UpdateOperatingHoursBatch(c *gin.Context) {
	var req OperatingHoursBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	in := make([]ucCalendar.OperatingHoursInput, 0, len(req.Rows))
	for _, row := range req.Rows {
		in = append(in, row.input(row.ID))
	}

	rows, err := h.batchHours.Execute(c.Request.Context(), in)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

// ======================================================
// SPECIAL HOURS
// ======================================================

// ListSpecialHours lists from today on; todos=true lists past dates too.
func (h *CalendarHandler) ListSpecialHours(c *gin.Context) {
	branchID, err := queryID(c, "sucursal_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	all, _ := strconv.ParseBool(c.Query("todos"))

	rows, err := h.listSpecial.Execute(c.Request.Context(), branchID, all)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *CalendarHandler) CreateSpecialHours(c *gin.Context) {
	var req SpecialHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	sh, err := h.createSpecial.Execute(c.Request.Context(), req.input())
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.Created(c, sh)
}

func (h *CalendarHandler) UpdateSpecialHours(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	var req SpecialHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	sh, err := h.updateSpecial.Execute(c.Request.Context(), id, req.input())
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, sh)
}

func (h *CalendarHandler) DeleteSpecialHours(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	if err := h.deleteSpecial.Execute(c.Request.Context(), id); err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// NON-WORKING DAYS
// ======================================================

func (h *CalendarHandler) ListNonWorkingDays(c *gin.Context) {
	branchID, err := queryID(c, "sucursal_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	days, err := h.listClosed.Execute(c.Request.Context(), branchID)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, days)
}

func (h *CalendarHandler) CreateNonWorkingDay(c *gin.Context) {
	var req NonWorkingDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	day, err := h.createClosed.Execute(c.Request.Context(), ucCalendar.NonWorkingDayInput{
		Date:        req.Date,
		Description: req.Description,
		BranchID:    req.BranchID,
	})
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.Created(c, day)
}

func (h *CalendarHandler) DeleteNonWorkingDay(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	if err := h.deleteClosed.Execute(c.Request.Context(), id); err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
