package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

var roomSortColumns = map[string]string{
	"room_id":     "room_id",
	"room_number": "room_number",
	"room_name":   "room_name",
	"created_at":  "created_at",
}

const roomColumns = "room_id, room_number, room_name, created_at, updated_at"

func scanRoom(row interface{ Scan(...any) error }, rm *model.Room) error {
	return row.Scan(&rm.ID, &rm.RoomNumber, &rm.RoomName, &rm.CreatedAt, &rm.UpdatedAt)
}

// Create inserts a room. A duplicate room number yields ErrRoomNumberExists.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	rm.RoomNumber = strings.TrimSpace(rm.RoomNumber)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (room_number, room_name) VALUES (?, ?)", rm.RoomNumber, rm.RoomName)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomNumberExists
		}
		return unavailable("rooms", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return unavailable("rooms", err)
	}
	return unavailable("rooms", scanRoom(r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE room_id = ?", id), rm))
}

// GetByID fetches a room or returns ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := scanRoom(r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE room_id = ?", id), &rm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, unavailable("rooms", err)
	}
	return &rm, nil
}

// Update overwrites the room number and name.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	rm.RoomNumber = strings.TrimSpace(rm.RoomNumber)
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET room_number = ?, room_name = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE room_id = ?`,
		rm.RoomNumber, rm.RoomName, rm.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomNumberExists
		}
		return unavailable("rooms", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return unavailable("rooms", scanRoom(r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE room_id = ?", rm.ID), rm))
}

// List returns one page of rooms and the total number of rooms.
func (r *RoomRepo) List(ctx context.Context, p Page) ([]model.Room, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&total); err != nil {
		return nil, 0, unavailable("rooms", err)
	}
	q := "SELECT " + roomColumns + " FROM rooms" + orderBy(p, roomSortColumns, "room_id") + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, unavailable("rooms", err)
	}
	defer rows.Close()

	out := make([]model.Room, 0, p.Limit)
	for rows.Next() {
		var rm model.Room
		if err := scanRoom(rows, &rm); err != nil {
			return nil, 0, unavailable("rooms", err)
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, unavailable("rooms", err)
	}
	return out, total, nil
}
