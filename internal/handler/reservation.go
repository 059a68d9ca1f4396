package handler

import (
    "context"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
    "github.com/iliyamo/hotel-reservation/internal/service"
)

// ReservationService is what ReservationHandler needs from the service
// layer. *service.ReservationService implements it.
type ReservationService interface {
    Create(ctx context.Context, req service.ReservationRequest) (*model.Reservation, error)
    Update(ctx context.Context, id uint64, req service.ReservationRequest) (*model.Reservation, error)
    Cancel(ctx context.Context, id uint64) (*model.Reservation, error)
    Get(ctx context.Context, id uint64) (*model.Reservation, error)
    List(ctx context.Context, p repository.Page) ([]model.Reservation, int64, error)
    Calendar(ctx context.Context, year, month int) (model.BusyDayMap, error)
}

// ReservationHandler serves /v1/reservations.
type ReservationHandler struct {
    Service ReservationService
}

// NewReservationHandler constructs a ReservationHandler and panics if svc is nil.
func NewReservationHandler(svc ReservationService) *ReservationHandler {
    if svc == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Service: svc}
}

// List handles GET /v1/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
    p, err := parsePage(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    items, total, err := h.Service.List(c.Request().Context(), p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, pageResponse{Items: items, Page: p.Page, Limit: p.Limit, Total: total})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    res, err := h.Service.Get(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Create handles POST /v1/reservations. Validation failures are 400, a
// missing guest or room is 404 and an overlapping stay is 409.
func (h *ReservationHandler) Create(c echo.Context) error {
    req, ok, err := h.readInput(c)
    if !ok {
        return err
    }
    res, err := h.Service.Create(c.Request().Context(), req)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, res)
}

// Update handles PUT /v1/reservations/:id.
func (h *ReservationHandler) Update(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    req, ok, err := h.readInput(c)
    if !ok {
        return err
    }
    res, err := h.Service.Update(c.Request().Context(), id, req)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /v1/reservations/:id. The reservation is kept with
// status canceled; the response has no body.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    if _, err := h.Service.Cancel(c.Request().Context(), id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// maxCalendarYear keeps the exclusive month bound within MySQL's DATE range
// (9999-12-31).
const maxCalendarYear = 9998

// Calendar handles GET /v1/reservations/calendar?year=&month= and returns
// the busy-day map for that month.
func (h *ReservationHandler) Calendar(c echo.Context) error {
    year, err := strconv.Atoi(c.QueryParam("year"))
    if err != nil || year < 1 || year > maxCalendarYear {
        return badRequest(c, "year must be between 1 and 9998")
    }
    month, err := strconv.Atoi(c.QueryParam("month"))
    if err != nil {
        return badRequest(c, "month must be a number between 1 and 12")
    }
    busy, err := h.Service.Calendar(c.Request().Context(), year, month)
    if err != nil {
        return writeError(c, err) // ErrInvalidMonth maps to 400
    }
    return c.JSON(http.StatusOK, busy)
}

// readInput binds and validates a reservation body. When ok is false the
// error response has already been written and err is its result.
func (h *ReservationHandler) readInput(c echo.Context) (service.ReservationRequest, bool, error) {
    var in ReservationInput
    if err := bindAndValidate(c, &in); err != nil {
        return service.ReservationRequest{}, false, badRequest(c, err.Error())
    }
    req, err := in.toRequest()
    if err != nil {
        return service.ReservationRequest{}, false, badRequest(c, "invalid date")
    }
    if !req.CheckOut.After(req.CheckIn.Time) {
        return service.ReservationRequest{}, false, badRequest(c, service.ErrInvalidStay.Error())
    }
    return req, true, nil
}
