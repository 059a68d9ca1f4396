package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// GuestStore is the guest persistence used by GuestHandler.
// *repository.GuestRepo implements it.
type GuestStore interface {
    Create(ctx context.Context, g *model.Guest) error
    GetByID(ctx context.Context, id uint64) (*model.Guest, error)
    Update(ctx context.Context, g *model.Guest) error
    List(ctx context.Context, p repository.Page) ([]model.Guest, int64, error)
    CountPastReservations(ctx context.Context, guestID uint64, today model.Date) (int64, error)
}

// GuestHandler serves /v1/guests.
type GuestHandler struct {
    Guests GuestStore
    Now    func() time.Time // clock for past-stay counting; time.Now when nil
}

// NewGuestHandler constructs a GuestHandler and panics if the store is nil.
func NewGuestHandler(guests GuestStore) *GuestHandler {
    if guests == nil {
        panic("nil store passed to NewGuestHandler")
    }
    return &GuestHandler{Guests: guests, Now: time.Now}
}

// List handles GET /v1/guests.
func (h *GuestHandler) List(c echo.Context) error {
    p, err := parsePage(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    items, total, err := h.Guests.List(c.Request().Context(), p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, pageResponse{Items: items, Page: p.Page, Limit: p.Limit, Total: total})
}

// Get handles GET /v1/guests/:id and includes the number of stays that
// checked out before today.
func (h *GuestHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    ctx := c.Request().Context()
    g, err := h.Guests.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    past, err := h.Guests.CountPastReservations(ctx, id, today(h.Now))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, model.GuestDetail{Guest: *g, TotalPastReservations: past})
}

// Create handles POST /v1/guests.
func (h *GuestHandler) Create(c echo.Context) error {
    var in GuestInput
    if err := bindAndValidate(c, &in); err != nil {
        return badRequest(c, err.Error())
    }
    g := in.toModel()
    if err := h.Guests.Create(c.Request().Context(), &g); err != nil {
        return writeError(c, err) // 409 on duplicate email
    }
    return c.JSON(http.StatusCreated, g)
}

// Update handles PUT /v1/guests/:id.
func (h *GuestHandler) Update(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    var in GuestInput
    if err := bindAndValidate(c, &in); err != nil {
        return badRequest(c, err.Error())
    }
    g := in.toModel()
    g.ID = id
    if err := h.Guests.Update(c.Request().Context(), &g); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, g)
}
