package handler // HTTP handlers for the hotel reservation API

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is a liveness probe for load balancers. It returns "ok" with 200.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
