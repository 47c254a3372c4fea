package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minimarket/goapi/base/ctx"
	hcdomain "github.com/minimarket/goapi/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.Usecase
}

// New will initialize the healthcheck/
func New(e *echo.Echo, us hcdomain.Usecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	status := h.healthCheck.Status(context)
	if !status.Mongo || !status.Redis {
		return c.JSON(http.StatusInternalServerError, status)
	}
	return c.JSON(http.StatusOK, status)
}
