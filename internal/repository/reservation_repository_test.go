package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

var reservationCols = []string{"reservation_id", "room_id", "guest_id", "check_in_date", "check_out_date", "status", "created_at", "updated_at"}

func reservationRow(id, room, guest uint64, in, out time.Time, status string) *sqlmock.Rows {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(reservationCols).AddRow(id, room, guest, in, out, status, now, now)
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestReservationRepo_FindOverlapping(t *testing.T) {
	t.Run("half-open bounds and canceled filter", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE room_id = ? AND check_in_date < ? AND check_out_date > ? AND status <> ?")).
			WithArgs(uint64(1), "2025-01-15", "2025-01-10", model.StatusCanceled).
			WillReturnRows(sqlmock.NewRows(reservationCols))

		rows, err := NewReservationRepo(db).FindOverlapping(context.Background(), booking.OverlapQuery{
			RoomID:   1,
			CheckIn:  mustDate(t, "2025-01-10"),
			CheckOut: mustDate(t, "2025-01-15"),
		})
		if err != nil {
			t.Fatalf("FindOverlapping() error = %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("FindOverlapping() = %v, want none", rows)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("compat mode excluding the updated row", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("AND check_out_date > ? AND reservation_id <> ?")).
			WithArgs(uint64(1), "2025-01-06", "2025-01-01", uint64(42)).
			WillReturnRows(reservationRow(7, 1, 3, day(2025, 1, 5), day(2025, 1, 10), model.StatusCanceled))

		rows, err := NewReservationRepo(db).FindOverlapping(context.Background(), booking.OverlapQuery{
			RoomID:          1,
			CheckIn:         mustDate(t, "2025-01-01"),
			CheckOut:        mustDate(t, "2025-01-06"),
			ExcludeID:       42,
			IncludeCanceled: true,
		})
		if err != nil {
			t.Fatalf("FindOverlapping() error = %v", err)
		}
		if len(rows) != 1 || rows[0].ID != 7 || rows[0].CheckInDate.String() != "2025-01-05" {
			t.Errorf("FindOverlapping() = %+v", rows)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestReservationRepo_FindIntersectingMonth(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE check_in_date < ? AND check_out_date >= ? AND status <> ?")).
		WithArgs("2026-01-01", "2025-12-01", model.StatusCanceled).
		WillReturnRows(sqlmock.NewRows([]string{"check_in_date", "check_out_date"}).
			AddRow(day(2025, 11, 28), day(2025, 12, 1)).
			AddRow(day(2025, 12, 30), day(2026, 1, 2)))

	start, end, err := booking.MonthBounds(2025, 12)
	if err != nil {
		t.Fatal(err)
	}
	ranges, err := NewReservationRepo(db).FindIntersectingMonth(context.Background(), start, end, false)
	if err != nil {
		t.Fatalf("FindIntersectingMonth() error = %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(ranges))
	}
	if ranges[0].End.String() != "2025-12-01" || ranges[1].Start.String() != "2025-12-30" {
		t.Errorf("ranges = %+v", ranges)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReservationRepo_WithRoomLock(t *testing.T) {
	t.Run("missing room rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT room_id FROM rooms WHERE room_id = ? FOR UPDATE")).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"room_id"}))
		mock.ExpectRollback()

		called := false
		err := NewReservationRepo(db).WithRoomLock(context.Background(), 99, func(*ReservationTx) error {
			called = true
			return nil
		})
		if !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("WithRoomLock() error = %v, want ErrRoomNotFound", err)
		}
		if called {
			t.Error("callback ran without a room lock")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("check and insert commit together", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(uint64(1)))
		mock.ExpectQuery(regexp.QuoteMeta("check_in_date < ? AND check_out_date > ?")).
			WithArgs(uint64(1), "2025-01-15", "2025-01-10", model.StatusCanceled).
			WillReturnRows(sqlmock.NewRows(reservationCols))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations")).
			WithArgs(uint64(1), uint64(2), "2025-01-10", "2025-01-15", model.StatusActive).
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE reservation_id = ?")).
			WithArgs(uint64(11)).
			WillReturnRows(reservationRow(11, 1, 2, day(2025, 1, 10), day(2025, 1, 15), model.StatusActive))
		mock.ExpectCommit()

		res := &model.Reservation{RoomID: 1, GuestID: 2, CheckInDate: mustDate(t, "2025-01-10"), CheckOutDate: mustDate(t, "2025-01-15")}
		err := NewReservationRepo(db).WithRoomLock(context.Background(), 1, func(tx *ReservationTx) error {
			checker := booking.NewChecker(tx, booking.ExcludeCanceled)
			if err := checker.Check(context.Background(), booking.Candidate{RoomID: 1, CheckIn: res.CheckInDate, CheckOut: res.CheckOutDate}); err != nil {
				return err
			}
			return tx.Create(context.Background(), res)
		})
		if err != nil {
			t.Fatalf("WithRoomLock() error = %v", err)
		}
		if res.ID != 11 || res.Status != model.StatusActive {
			t.Errorf("created reservation = %+v", res)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("conflict rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"room_id"}).AddRow(uint64(1)))
		mock.ExpectQuery(regexp.QuoteMeta("check_in_date < ? AND check_out_date > ?")).
			WillReturnRows(reservationRow(3, 1, 5, day(2025, 1, 5), day(2025, 1, 10), model.StatusActive))
		mock.ExpectRollback()

		err := NewReservationRepo(db).WithRoomLock(context.Background(), 1, func(tx *ReservationTx) error {
			return booking.NewChecker(tx, booking.ExcludeCanceled).Check(context.Background(), booking.Candidate{
				RoomID: 1, CheckIn: mustDate(t, "2025-01-01"), CheckOut: mustDate(t, "2025-01-06"),
			})
		})
		if !errors.Is(err, booking.ErrConflict) {
			t.Errorf("WithRoomLock() error = %v, want ErrConflict", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestReservationRepo_Cancel(t *testing.T) {
	t.Run("active reservation", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("WHERE reservation_id = ? FOR UPDATE")).WithArgs(uint64(5)).
			WillReturnRows(reservationRow(5, 1, 1, day(2025, 1, 1), day(2025, 1, 3), model.StatusActive))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET status = ?")).
			WithArgs(model.StatusCanceled, uint64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE reservation_id = ?")).WithArgs(uint64(5)).
			WillReturnRows(reservationRow(5, 1, 1, day(2025, 1, 1), day(2025, 1, 3), model.StatusCanceled))
		mock.ExpectCommit()

		res, err := NewReservationRepo(db).Cancel(context.Background(), 5)
		if err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}
		if !res.IsCanceled() {
			t.Errorf("status = %q, want canceled", res.Status)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("missing reservation", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows(reservationCols))
		mock.ExpectRollback()

		if _, err := NewReservationRepo(db).Cancel(context.Background(), 5); !errors.Is(err, ErrReservationNotFound) {
			t.Errorf("Cancel() error = %v, want ErrReservationNotFound", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestReservationRepo_List(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(8)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY check_in_date DESC, reservation_id ASC LIMIT ? OFFSET ?")).
		WithArgs(5, 5).
		WillReturnRows(reservationRow(2, 1, 1, day(2025, 1, 5), day(2025, 1, 10), model.StatusActive))

	items, total, err := NewReservationRepo(db).List(context.Background(), Page{Page: 2, Limit: 5, SortBy: "check_in_date", Order: "desc"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 8 || len(items) != 1 {
		t.Errorf("List() = %d items, total %d", len(items), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
