package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/mascotico-api/internal/domain/appointment"
	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/httpresp"
)

// ReferenceHandler serves the lookups booking forms need.
type ReferenceHandler struct {
	refs domain.References
	errs *httperr.Responder
}

func NewReferenceHandler(refs domain.References, errs *httperr.Responder) *ReferenceHandler {
	return &ReferenceHandler{refs: refs, errs: errs}
}

func (h *ReferenceHandler) Branches(c *gin.Context) {
	branches, err := h.refs.ListBranches(c.Request.Context(), true)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, branches)
}

func (h *ReferenceHandler) Services(c *gin.Context) {
	services, err := h.refs.ListServices(c.Request.Context(), true)
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}
