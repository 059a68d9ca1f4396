package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations together with
// the range queries used by the booking rules. Dates are DATE columns read
// as UTC midnight.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// querier is satisfied by both *sql.DB and *sql.Tx so read queries can run
// inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var reservationSortColumns = map[string]string{
	"reservation_id": "reservation_id",
	"room_id":        "room_id",
	"guest_id":       "guest_id",
	"check_in_date":  "check_in_date",
	"check_out_date": "check_out_date",
	"status":         "status",
	"created_at":     "created_at",
}

const reservationColumns = "reservation_id, room_id, guest_id, check_in_date, check_out_date, status, created_at, updated_at"

func scanReservation(row interface{ Scan(...any) error }, res *model.Reservation) error {
	return row.Scan(&res.ID, &res.RoomID, &res.GuestID, &res.CheckInDate, &res.CheckOutDate,
		&res.Status, &res.CreatedAt, &res.UpdatedAt)
}

func queryReservations(ctx context.Context, q querier, query string, args ...any) ([]model.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Reservation{}
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func getReservation(ctx context.Context, q querier, id uint64, lock bool) (*model.Reservation, error) {
	query := "SELECT " + reservationColumns + " FROM reservations WHERE reservation_id = ?"
	if lock {
		query += " FOR UPDATE"
	}
	var res model.Reservation
	if err := scanReservation(q.QueryRowContext(ctx, query, id), &res); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// findOverlapping runs the half-open overlap query: an existing stay
// collides when it starts before the candidate leaves and ends after the
// candidate arrives.
func findOverlapping(ctx context.Context, q querier, oq booking.OverlapQuery) ([]model.Reservation, error) {
	query := "SELECT " + reservationColumns + ` FROM reservations
		WHERE room_id = ? AND check_in_date < ? AND check_out_date > ?`
	args := []any{oq.RoomID, oq.CheckOut, oq.CheckIn}
	if oq.ExcludeID != 0 {
		query += " AND reservation_id <> ?"
		args = append(args, oq.ExcludeID)
	}
	if !oq.IncludeCanceled {
		query += " AND status <> ?"
		args = append(args, model.StatusCanceled)
	}
	return queryReservations(ctx, q, query, args...)
}

// FindOverlapping implements booking.OverlapFinder outside a transaction.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, q booking.OverlapQuery) ([]model.Reservation, error) {
	return findOverlapping(ctx, r.db, q)
}

// FindIntersectingMonth implements booking.MonthFinder. The lower bound is
// inclusive on check_out_date so a stay leaving on start is returned.
func (r *ReservationRepo) FindIntersectingMonth(ctx context.Context, start, end model.Date, includeCanceled bool) ([]booking.DateRange, error) {
	query := `SELECT check_in_date, check_out_date FROM reservations
		WHERE check_in_date < ? AND check_out_date >= ?`
	args := []any{end, start}
	if !includeCanceled {
		query += " AND status <> ?"
		args = append(args, model.StatusCanceled)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.DateRange
	for rows.Next() {
		var dr booking.DateRange
		if err := rows.Scan(&dr.Start, &dr.End); err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return getReservation(ctx, r.db, id, false)
}

// List returns one page of reservations and the total count.
func (r *ReservationRepo) List(ctx context.Context, p Page) ([]model.Reservation, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reservations").Scan(&total); err != nil {
		return nil, 0, err
	}
	query := "SELECT " + reservationColumns + " FROM reservations" +
		orderBy(p, reservationSortColumns, "reservation_id") + " LIMIT ? OFFSET ?"
	out, err := queryReservations(ctx, r.db, query, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListUpcomingByRoom returns reservations of a room that have not checked
// out before today, ordered by check-in date.
func (r *ReservationRepo) ListUpcomingByRoom(ctx context.Context, roomID uint64, today model.Date) ([]model.Reservation, error) {
	query := "SELECT " + reservationColumns + ` FROM reservations
		WHERE room_id = ? AND check_out_date >= ?
		ORDER BY check_in_date ASC, reservation_id ASC`
	out, err := queryReservations(ctx, r.db, query, roomID, today)
	if err != nil {
		return nil, unavailable("reservations", err)
	}
	return out, nil
}

// Cancel marks a reservation as canceled and returns the updated row.
// Canceling an already canceled reservation is a no-op.
func (r *ReservationRepo) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := getReservation(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	if !res.IsCanceled() {
		const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE reservation_id = ?`
		if _, err := tx.ExecContext(ctx, q, model.StatusCanceled, id); err != nil {
			return nil, err
		}
		if res, err = getReservation(ctx, tx, id, false); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// WithRoomLock runs fn inside a transaction that holds a row lock on the
// room. Concurrent bookings for the same room serialise on this lock, so a
// conflict check performed through the ReservationTx cannot be invalidated
// before the write commits. It returns ErrRoomNotFound when the room does
// not exist. The transaction is committed only when fn returns nil.
func (r *ReservationRepo) WithRoomLock(ctx context.Context, roomID uint64, fn func(*ReservationTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var locked uint64
	if err := tx.QueryRowContext(ctx, "SELECT room_id FROM rooms WHERE room_id = ? FOR UPDATE", roomID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("lock room %d: %w", roomID, err)
	}
	if err := fn(&ReservationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReservationTx exposes the reservation operations allowed while a room
// lock is held.
type ReservationTx struct {
	tx *sql.Tx
}

// FindOverlapping implements booking.OverlapFinder inside the transaction.
func (t *ReservationTx) FindOverlapping(ctx context.Context, q booking.OverlapQuery) ([]model.Reservation, error) {
	return findOverlapping(ctx, t.tx, q)
}

// GuestExists reports whether the guest row is present.
func (t *ReservationTx) GuestExists(ctx context.Context, guestID uint64) (bool, error) {
	var id uint64
	err := t.tx.QueryRowContext(ctx, "SELECT guest_id FROM guests WHERE guest_id = ?", guestID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// GetForUpdate loads and locks a reservation.
func (t *ReservationTx) GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	return getReservation(ctx, t.tx, id, true)
}

// Create inserts the reservation and reloads it to populate the id,
// status default and timestamps.
func (t *ReservationTx) Create(ctx context.Context, res *model.Reservation) error {
	if res.Status == "" {
		res.Status = model.StatusActive
	}
	const q = `INSERT INTO reservations (room_id, guest_id, check_in_date, check_out_date, status) VALUES (?, ?, ?, ?, ?)`
	result, err := t.tx.ExecContext(ctx, q, res.RoomID, res.GuestID, res.CheckInDate, res.CheckOutDate, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	loaded, err := getReservation(ctx, t.tx, uint64(id), false)
	if err != nil {
		return err
	}
	*res = *loaded
	return nil
}

// Update rewrites room, guest and dates of an existing reservation. Status
// is left untouched.
func (t *ReservationTx) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
		SET room_id = ?, guest_id = ?, check_in_date = ?, check_out_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE reservation_id = ?`
	result, err := t.tx.ExecContext(ctx, q, res.RoomID, res.GuestID, res.CheckInDate, res.CheckOutDate, res.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	loaded, err := getReservation(ctx, t.tx, res.ID, false)
	if err != nil {
		return err
	}
	*res = *loaded
	return nil
}
