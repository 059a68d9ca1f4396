package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/repository"
)

// RoomStore is the room persistence used by RoomHandler.
type RoomStore interface {
    Create(ctx context.Context, rm *model.Room) error
    GetByID(ctx context.Context, id uint64) (*model.Room, error)
    Update(ctx context.Context, rm *model.Room) error
    List(ctx context.Context, p repository.Page) ([]model.Room, int64, error)
}

// UpcomingLister lists a room's reservations that have not checked out yet.
type UpcomingLister interface {
    ListUpcomingByRoom(ctx context.Context, roomID uint64, today model.Date) ([]model.Reservation, error)
}

// RoomHandler serves /v1/rooms.
type RoomHandler struct {
    Rooms        RoomStore
    Reservations UpcomingLister
    Now          func() time.Time
}

// NewRoomHandler constructs a RoomHandler and panics if any dependency is nil.
func NewRoomHandler(rooms RoomStore, reservations UpcomingLister) *RoomHandler {
    if rooms == nil || reservations == nil {
        panic("nil store passed to NewRoomHandler")
    }
    return &RoomHandler{Rooms: rooms, Reservations: reservations, Now: time.Now}
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
    p, err := parsePage(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    items, total, err := h.Rooms.List(c.Request().Context(), p)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, pageResponse{Items: items, Page: p.Page, Limit: p.Limit, Total: total})
}

// Get handles GET /v1/rooms/:id. The response carries the room's current
// and future reservations.
func (h *RoomHandler) Get(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    ctx := c.Request().Context()
    rm, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    upcoming, err := h.Reservations.ListUpcomingByRoom(ctx, id, today(h.Now))
    if err != nil {
        return writeError(c, err)
    }
    if upcoming == nil {
        upcoming = []model.Reservation{} // render [] rather than null
    }
    return c.JSON(http.StatusOK, model.RoomDetail{Room: *rm, Reservations: upcoming})
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
    var in RoomInput
    if err := bindAndValidate(c, &in); err != nil {
        return badRequest(c, err.Error())
    }
    rm := in.toModel()
    if err := h.Rooms.Create(c.Request().Context(), &rm); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, rm)
}

// Update handles PUT /v1/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return badRequest(c, "invalid id")
    }
    var in RoomInput
    if err := bindAndValidate(c, &in); err != nil {
        return badRequest(c, err.Error())
    }
    rm := in.toModel()
    rm.ID = id
    if err := h.Rooms.Update(c.Request().Context(), &rm); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, rm)
}
