package database

import (
	"context"
	"database/sql"
	"fmt"
)

type seedStay struct {
	room, guest int
	in, out     string
	status      string
}

// seedStays mirrors the sample January/February bookings used in manual
// testing; one of them is canceled.
var seedStays = []seedStay{
	{0, 0, "2025-01-01", "2025-01-07", "active"},
	{1, 1, "2025-01-05", "2025-01-10", "active"},
	{2, 2, "2025-01-10", "2025-01-15", "active"},
	{3, 3, "2025-01-15", "2025-01-20", "canceled"},
	{4, 4, "2025-01-20", "2025-01-25", "active"},
	{5, 5, "2025-01-25", "2025-01-30", "active"},
	{6, 6, "2025-02-01", "2025-02-05", "active"},
	{7, 7, "2025-02-05", "2025-02-10", "active"},
}

// Seed replaces all rows with a small sample data set of guests, rooms and
// reservations. It is meant for local development only.
func Seed(ctx context.Context, db *sql.DB) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	for _, table := range []string{"reservations", "rooms", "guests"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	guestIDs := make([]int64, 0, 10)
	roomIDs := make([]int64, 0, 10)
	for i := 1; i <= 10; i++ {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO guests (name, email, phone_number) VALUES (?, ?, ?)",
			fmt.Sprintf("Guest %d", i), fmt.Sprintf("guest%d@example.com", i), fmt.Sprintf("555-01%02d", i))
		if err != nil {
			return fmt.Errorf("seed guest %d: %w", i, err)
		}
		id, _ := res.LastInsertId()
		guestIDs = append(guestIDs, id)

		res, err = tx.ExecContext(ctx,
			"INSERT INTO rooms (room_number, room_name) VALUES (?, ?)",
			fmt.Sprintf("%d", 100+i), fmt.Sprintf("Room %d", 100+i))
		if err != nil {
			return fmt.Errorf("seed room %d: %w", i, err)
		}
		id, _ = res.LastInsertId()
		roomIDs = append(roomIDs, id)
	}
	for _, s := range seedStays {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO reservations (room_id, guest_id, check_in_date, check_out_date, status) VALUES (?, ?, ?, ?, ?)",
			roomIDs[s.room], guestIDs[s.guest], s.in, s.out, s.status); err != nil {
			return fmt.Errorf("seed reservation: %w", err)
		}
	}
	return nil
}
