package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/mascotico-api/internal/httperr"
	"github.com/BruksfildServices01/mascotico-api/internal/middleware"
	"github.com/BruksfildServices01/mascotico-api/internal/usecase/appointment"
)

// callerFrom reads the actor AuthMiddleware stored in the context.
func callerFrom(c *gin.Context) appointment.Caller {
	if c.GetString(middleware.ContextRole) == middleware.RoleAdmin {
		return appointment.AdminCaller()
	}
	return appointment.ClientCaller(c.GetUint(middleware.ContextClientID))
}

func parseID(field, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, httperr.Validation(field, fmt.Sprintf("%s must be a positive integer", field))
	}
	return uint(id), nil
}

func paramID(c *gin.Context, name string) (uint, error) {
	return parseID(name, c.Param(name))
}

// queryID returns nil when the parameter is absent.
func queryID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(name, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
