package handler

import (
    "errors"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/booking"
    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

const (
    defaultPage  = 1
    defaultLimit = 10
    maxLimit     = 100
)

// pageResponse is the envelope of every list endpoint.
type pageResponse struct {
    Items any   `json:"items"`
    Page  int   `json:"page"`
    Limit int   `json:"limit"`
    Total int64 `json:"total"`
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// parsePage reads page, limit, sort_by and order from the query string.
// page defaults to 1 and limit to 10; limit is capped at 100.
func parsePage(c echo.Context) (repository.Page, error) {
    p := repository.Page{Page: defaultPage, Limit: defaultLimit}
    if s := c.QueryParam("page"); s != "" {
        n, err := strconv.Atoi(s)
        if err != nil || n < 1 {
            return p, errors.New("page must be a positive integer")
        }
        p.Page = n
    }
    if s := c.QueryParam("limit"); s != "" {
        n, err := strconv.Atoi(s)
        if err != nil || n < 1 {
            return p, errors.New("limit must be a positive integer")
        }
        if n > maxLimit {
            n = maxLimit
        }
        p.Limit = n
    }
    p.SortBy = strings.TrimSpace(c.QueryParam("sort_by"))
    switch order := strings.ToLower(c.QueryParam("order")); order {
    case "", "asc", "desc":
        p.Order = order
    default:
        return p, errors.New("order must be asc or desc")
    }
    return p, nil
}

// bindAndValidate decodes the JSON body into dst and runs the registered
// validator. The returned error message is safe to show to clients.
func bindAndValidate(c echo.Context, dst any) error {
    if err := c.Bind(dst); err != nil {
        return errors.New("invalid request body")
    }
    if err := c.Validate(dst); err != nil {
        return err
    }
    return nil
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// writeError maps domain and storage errors to HTTP responses. Unknown
// errors are logged and reported as 500 without details.
func writeError(c echo.Context, err error) error {
    status, msg := http.StatusInternalServerError, "internal error"
    switch {
    case errors.Is(err, booking.ErrConflict):
        status, msg = http.StatusConflict, "Room is already booked for the selected dates"
    case errors.Is(err, booking.ErrInvalidMonth):
        status, msg = http.StatusBadRequest, err.Error()
    case errors.Is(err, service.ErrInvalidStay):
        status, msg = http.StatusBadRequest, err.Error()
    case errors.Is(err, service.ErrReservationCanceled):
        status, msg = http.StatusConflict, "Reservation is canceled and cannot be updated"
    case errors.Is(err, booking.ErrStorageUnavailable):
        status, msg = http.StatusServiceUnavailable, "storage unavailable"
    case errors.Is(err, repository.ErrGuestNotFound):
        status, msg = http.StatusNotFound, "Guest does not exist"
    case errors.Is(err, repository.ErrRoomNotFound):
        status, msg = http.StatusNotFound, "Room does not exist"
    case errors.Is(err, repository.ErrReservationNotFound):
        status, msg = http.StatusNotFound, "Reservation does not exist"
    case errors.Is(err, repository.ErrEmailExists):
        status, msg = http.StatusConflict, "email already in use"
    case errors.Is(err, repository.ErrRoomNumberExists):
        status, msg = http.StatusConflict, "room number already in use"
    }
    if status >= http.StatusInternalServerError {
        log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
    }
    return c.JSON(status, map[string]string{"error": msg})
}

// today is the calendar date used for past/upcoming splits.
func today(now func() time.Time) model.Date {
    if now == nil {
        now = time.Now
    }
    return model.NewDate(now())
}
