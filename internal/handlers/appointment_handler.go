package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/httpresp"
	"github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list   *appointment.ListAppointments
	get    *appointment.GetAppointment
	create *appointment.CreateAppointment
	update *appointment.UpdateAppointment
	cancel *appointment.CancelAppointment
	delete *appointment.DeleteAppointment
	stats  *appointment.ComputeStatistics
	errs   *httperr.Responder
}

func NewAppointmentHandler(
	list *appointment.ListAppointments,
	get *appointment.GetAppointment,
	create *appointment.CreateAppointment,
	update *appointment.UpdateAppointment,
	cancel *appointment.CancelAppointment,
	remove *appointment.DeleteAppointment,
	stats *appointment.ComputeStatistics,
	errs *httperr.Responder,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:   list,
		get:    get,
		create: create,
		update: update,
		cancel: cancel,
		delete: remove,
		stats:  stats,
		errs:   errs,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID  uint    `json:"cliente_id"`
	PetID     uint    `json:"mascota_id" binding:"required"`
	ServiceID uint    `json:"servicio_id" binding:"required"`
	BranchID  *uint   `json:"sucursal_id"`
	Date      string  `json:"fecha" binding:"required,fecha"`
	Time      string  `json:"hora" binding:"required,hora"`
	Status    string  `json:"estado"`
	Notes     *string `json:"notas"`
}

// UpdateAppointmentRequest is a patch; absent fields are left untouched.
type UpdateAppointmentRequest struct {
	Date     *string `json:"fecha" binding:"omitempty,fecha"`
	Time     *string `json:"hora" binding:"omitempty,hora"`
	BranchID *uint   `json:"sucursal_id"`
	Status   *string `json:"estado"`
	Notes    *string `json:"notas"`
}

// ======================================================
// LIST
// ======================================================

// List accepts cliente_id, fecha, sucursal_id, estado and vista=proximas.
func (h *AppointmentHandler) List(c *gin.Context) {
	clientID, err := queryID(c, "cliente_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	branchID, err := queryID(c, "sucursal_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	h.respondList(c, appointment.ListAppointmentsInput{
		Caller:   callerFrom(c),
		ClientID: clientID,
		BranchID: branchID,
		Date:     c.Query("fecha"),
		Status:   c.Query("estado"),
		Upcoming: strings.EqualFold(c.Query("vista"), "proximas"),
	})
}

func (h *AppointmentHandler) ListByClient(c *gin.Context) {
	clientID, err := paramID(c, "cliente_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	h.respondList(c, appointment.ListAppointmentsInput{
		Caller:   callerFrom(c),
		ClientID: &clientID,
	})
}

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	branchID, err := queryID(c, "sucursal_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	h.respondList(c, appointment.ListAppointmentsInput{
		Caller:   callerFrom(c),
		BranchID: branchID,
		Date:     c.Param("fecha"),
	})
}

func (h *AppointmentHandler) respondList(c *gin.Context, in appointment.ListAppointmentsInput) {
	items, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}

// ======================================================
// STATISTICS
// ======================================================

func (h *AppointmentHandler) Statistics(c *gin.Context) {
	var clientID *uint
	if raw := c.Param("cliente_id"); raw != "" {
		id, err := parseID("cliente_id", raw)
		if err != nil {
			h.errs.Respond(c, err)
			return
		}
		clientID = &id
	}

	stats, err := h.stats.Execute(c.Request.Context(), callerFrom(c), clientID)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, stats)
}

// ======================================================
// GET
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	created, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		Caller:    callerFrom(c),
		ClientID:  req.ClientID,
		PetID:     req.PetID,
		ServiceID: req.ServiceID,
		BranchID:  req.BranchID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.Created(c, created)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.Respond(c, validators.ToBusiness(err))
		return
	}

	updated, err := h.update.Execute(c.Request.Context(), appointment.UpdateAppointmentInput{
		Caller:   callerFrom(c),
		ID:       id,
		Date:     req.Date,
		Time:     req.Time,
		BranchID: req.BranchID,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, updated)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	cancelled, err := h.cancel.Execute(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, cancelled)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	if err := h.delete.Execute(c.Request.Context(), callerFrom(c), id); err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.NoContent(c)
}
