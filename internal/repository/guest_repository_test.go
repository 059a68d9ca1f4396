package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestGuestRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO guests")).
		WithArgs("Ada", "ada@example.com", "555").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	g := &model.Guest{Name: "Ada", Email: "  Ada@Example.com ", PhoneNumber: "555"}
	if err := NewGuestRepo(db).Create(context.Background(), g); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() error = %v, want ErrEmailExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGuestRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM guests WHERE guest_id = ?")).WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"guest_id"}))

	if _, err := NewGuestRepo(db).GetByID(context.Background(), 4); !errors.Is(err, ErrGuestNotFound) {
		t.Errorf("GetByID() error = %v, want ErrGuestNotFound", err)
	}
}

func TestGuestRepo_CountPastReservations(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE guest_id = ? AND check_out_date < ?")).
		WithArgs(uint64(2), "2025-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(3)))

	n, err := NewGuestRepo(db).CountPastReservations(context.Background(), 2, mustDate(t, "2025-06-01"))
	if err != nil || n != 3 {
		t.Errorf("CountPastReservations() = %d, %v; want 3, nil", n, err)
	}
}

func TestRoomRepo_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE rooms SET room_number = ?")).
		WithArgs("101", "Sea view", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rm := &model.Room{ID: 9, RoomNumber: " 101 ", RoomName: "Sea view"}
	if err := NewRoomRepo(db).Update(context.Background(), rm); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Update() error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomRepo_Create_DuplicateNumber(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	if err := NewRoomRepo(db).Create(context.Background(), &model.Room{RoomNumber: "101", RoomName: "x"}); !errors.Is(err, ErrRoomNumberExists) {
		t.Errorf("Create() error = %v, want ErrRoomNumberExists", err)
	}
}

func TestGuestAndRoomRepos_DriverErrorsAreUnavailable(t *testing.T) {
	ctx := context.Background()
	down := errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

	tests := []struct {
		name string
		run  func(db *sql.DB, mock sqlmock.Sqlmock) error
	}{
		{"guest list", func(db *sql.DB, mock sqlmock.Sqlmock) error {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM guests")).WillReturnError(down)
			_, _, err := NewGuestRepo(db).List(ctx, Page{Page: 1, Limit: 10})
			return err
		}},
		{"guest get", func(db *sql.DB, mock sqlmock.Sqlmock) error {
			mock.ExpectQuery(regexp.QuoteMeta("FROM guests WHERE guest_id = ?")).WillReturnError(down)
			_, err := NewGuestRepo(db).GetByID(ctx, 1)
			return err
		}},
		{"guest past stays", func(db *sql.DB, mock sqlmock.Sqlmock) error {
			mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE guest_id = ?")).WillReturnError(down)
			_, err := NewGuestRepo(db).CountPastReservations(ctx, 1, mustDate(t, "2025-06-01"))
			return err
		}},
		{"room create", func(db *sql.DB, mock sqlmock.Sqlmock) error {
			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).WillReturnError(down)
			return NewRoomRepo(db).Create(ctx, &model.Room{RoomNumber: "101", RoomName: "x"})
		}},
		{"room list", func(db *sql.DB, mock sqlmock.Sqlmock) error {
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms")).WillReturnError(down)
			_, _, err := NewRoomRepo(db).List(ctx, Page{Page: 1, Limit: 10})
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			err := tc.run(db, mock)
			if !errors.Is(err, booking.ErrStorageUnavailable) || !errors.Is(err, down) {
				t.Errorf("error = %v, want ErrStorageUnavailable wrapping the driver error", err)
			}
		})
	}
}
