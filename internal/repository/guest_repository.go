package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// GuestRepo encapsulates all database queries related to guests.
type GuestRepo struct {
	db *sql.DB
}

// NewGuestRepo constructs a GuestRepo with the provided DB handle.
func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{db: db} }

var guestSortColumns = map[string]string{
	"guest_id":   "guest_id",
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

const guestColumns = "guest_id, name, email, phone_number, created_at, updated_at"

func scanGuest(row interface{ Scan(...any) error }, g *model.Guest) error {
	return row.Scan(&g.ID, &g.Name, &g.Email, &g.PhoneNumber, &g.CreatedAt, &g.UpdatedAt)
}

// Create inserts a new guest and reloads it so timestamps are populated.
// Emails are stored lower-cased.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO guests (name, email, phone_number) VALUES (?, ?, ?)",
		g.Name, g.Email, g.PhoneNumber)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return unavailable("guests", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return unavailable("guests", err)
	}
	return unavailable("guests", scanGuest(r.db.QueryRowContext(ctx,
		"SELECT "+guestColumns+" FROM guests WHERE guest_id = ?", id), g))
}

// GetByID fetches a guest or returns ErrGuestNotFound.
func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	var g model.Guest
	err := scanGuest(r.db.QueryRowContext(ctx,
		"SELECT "+guestColumns+" FROM guests WHERE guest_id = ?", id), &g)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGuestNotFound
		}
		return nil, unavailable("guests", err)
	}
	return &g, nil
}

// Update overwrites name, email and phone number. It returns
// ErrGuestNotFound when no row matches and ErrEmailExists on a duplicate
// email.
func (r *GuestRepo) Update(ctx context.Context, g *model.Guest) error {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	res, err := r.db.ExecContext(ctx,
		`UPDATE guests SET name = ?, email = ?, phone_number = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE guest_id = ?`,
		g.Name, g.Email, g.PhoneNumber, g.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return unavailable("guests", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGuestNotFound
	}
	return unavailable("guests", scanGuest(r.db.QueryRowContext(ctx,
		"SELECT "+guestColumns+" FROM guests WHERE guest_id = ?", g.ID), g))
}

// List returns one page of guests and the total number of guests.
func (r *GuestRepo) List(ctx context.Context, p Page) ([]model.Guest, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM guests").Scan(&total); err != nil {
		return nil, 0, unavailable("guests", err)
	}
	q := "SELECT " + guestColumns + " FROM guests" + orderBy(p, guestSortColumns, "guest_id") + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, unavailable("guests", err)
	}
	defer rows.Close()

	out := make([]model.Guest, 0, p.Limit)
	for rows.Next() {
		var g model.Guest
		if err := scanGuest(rows, &g); err != nil {
			return nil, 0, unavailable("guests", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, unavailable("guests", err)
	}
	return out, total, nil
}

// CountPastReservations counts the guest's stays that checked out before
// today.
func (r *GuestRepo) CountPastReservations(ctx context.Context, guestID uint64, today model.Date) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE guest_id = ? AND check_out_date < ?",
		guestID, today).Scan(&n)
	return n, unavailable("guests", err)
}
