package handler // declare the package name; contains HTTP handlers

import (
    "net/http"          // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// messageResp is the body of the fixed-message endpoints.
type messageResp struct {
    Message string `json:"message"`
}

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with a 200 status.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Root answers GET / with a liveness message for humans poking the API.
func Root(c echo.Context) error {
    return c.JSON(http.StatusOK, messageResp{Message: "Skyblock Shop API running"})
}

// Hello answers GET /api/hello; the storefront uses it to check that its
// API base URL is wired correctly.
func Hello(c echo.Context) error {
    return c.JSON(http.StatusOK, messageResp{Message: "Hello from the backend API!"})
}
