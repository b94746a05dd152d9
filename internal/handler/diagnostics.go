package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skyblock-shop/internal/diagnostics"
)

// DiagnosticsHandler serves the database status report.
type DiagnosticsHandler struct {
    Probe *diagnostics.Probe
}

func NewDiagnosticsHandler(p *diagnostics.Probe) *DiagnosticsHandler {
    return &DiagnosticsHandler{Probe: p}
}

// Test runs the probe.  It always answers 200: a broken database shows up
// in the report, never in the status code.
func (h *DiagnosticsHandler) Test(c echo.Context) error {
    return c.JSON(http.StatusOK, h.Probe.Run(c.Request().Context()))
}
