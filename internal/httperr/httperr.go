package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string         `json:"error_code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func Unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, HTTPError{Code: code, Message: message})
}

func Forbidden(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, HTTPError{Code: code, Message: message})
}

func TooManyRequests(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, HTTPError{Code: code, Message: message})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation, KindSlotUnavailable:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ======================================================
// Responder
// ======================================================

// Responder turns use case errors into JSON responses. Store failures are
// logged with full detail and answered with a generic message unless
// debug is on.
type Responder struct {
	log   *zap.Logger
	debug bool
}

func NewResponder(log *zap.Logger, debug bool) *Responder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Responder{log: log, debug: debug}
}

func (r *Responder) Respond(c *gin.Context, err error) {
	be, ok := As(err)
	if !ok {
		be = &BusinessError{Kind: KindStore, Code: "store_error", Err: err}
	}

	status := StatusFor(be.Kind)
	body := HTTPError{
		Code:    be.Code,
		Message: be.Message,
		Field:   be.Field,
	}

	switch be.Kind {
	case KindInvalidTransition:
		body.Details = map[string]any{"from": be.From, "to": be.To}
	case KindSlotUnavailable:
		body.Details = map[string]any{"reason": be.Reason}
	case KindStore:
		r.log.Error("store failure",
			zap.String("op", be.Message),
			zap.String("path", c.FullPath()),
			zap.Error(be.Err),
		)
		body.Code = "store_error"
		body.Message = "internal error, please try again later"
		if r.debug && be.Err != nil {
			body.Details = map[string]any{"op": be.Message, "cause": be.Err.Error()}
		}
	}

	c.JSON(status, body)
}
