package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/httpresp"
	"github.com/BruksfildServices01/mascotico-api/internal/infra/runstatus"
	"github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
)

// ReconcileRunner is implemented by the scheduler.
type ReconcileRunner interface {
	RunNow(ctx context.Context) (appointment.ReconcileResult, error)
	LastRun(ctx context.Context) (*runstatus.Run, error)
}

type ReconcileHandler struct {
	runner ReconcileRunner
	errs   *httperr.Responder
}

func NewReconcileHandler(runner ReconcileRunner, errs *httperr.Responder) *ReconcileHandler {
	return &ReconcileHandler{runner: runner, errs: errs}
}

// Run lapses past appointments now and answers {"updatedCount": n}.
func (h *ReconcileHandler) Run(c *gin.Context) {
	res, err := h.runner.RunNow(c.Request.Context())
	if err != nil {
		h.errs.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *ReconcileHandler) Status(c *gin.Context) {
	last, err := h.runner.LastRun(c.Request.Context())
	if err != nil {
		h.errs.Respond(c, httperr.Store("read reconcile status", err))
		return
	}
	if last == nil {
		h.errs.Respond(c, httperr.NotFound("reconcile_not_run", "reconciliation has not run yet"))
		return
	}
	httpresp.OK(c, last)
}
