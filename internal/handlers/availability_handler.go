package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/httpresp"
	"github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
)

type AvailabilityHandler struct {
	check *appointment.CheckAvailability
	day   *appointment.GetAvailability
	errs  *httperr.Responder
}

func NewAvailabilityHandler(
	check *appointment.CheckAvailability,
	day *appointment.GetAvailability,
	errs *httperr.Responder,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		check: check,
		day:   day,
		errs:  errs,
	}
}

// branchQuery returns 0 when sucursal_id is absent so the use case reports
// it as required.
func branchQuery(c *gin.Context) (uint, error) {
	id, err := queryID(c, "sucursal_id")
	if err != nil || id == nil {
		return 0, err
	}
	return *id, nil
}

// Check answers whether one slot can be booked: GET ?sucursal_id&fecha&hora.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	branchID, err := branchQuery(c)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	res, err := h.check.Execute(c.Request.Context(), branchID, c.Query("fecha"), c.Query("hora"))
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

// Day lists the free slots of a date: GET ?sucursal_id&fecha[&servicio_id].
func (h *AvailabilityHandler) Day(c *gin.Context) {
	branchID, err := branchQuery(c)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	serviceID, err := queryID(c, "servicio_id")
	if err != nil {
		h.errs.Respond(c, err)
		return
	}

	schedule, err := h.day.Execute(c.Request.Context(), branchID, c.Query("fecha"), serviceID)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, schedule)
}
