package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ErrInvalidStay is returned when check-out is not after check-in.
var ErrInvalidStay = errors.New("check_out_date must be after check_in_date")

// ErrReservationCanceled is returned when updating a canceled reservation.
// A canceled stay cannot be moved or revived; book a new one instead.
var ErrReservationCanceled = errors.New("reservation is canceled")

// BookingTx is the set of reservation operations available while a room
// lock is held. *repository.ReservationTx implements it.
type BookingTx interface {
	booking.OverlapFinder
	GuestExists(ctx context.Context, guestID uint64) (bool, error)
	GetForUpdate(ctx context.Context, id uint64) (*model.Reservation, error)
	Create(ctx context.Context, res *model.Reservation) error
	Update(ctx context.Context, res *model.Reservation) error
}

// ReservationStore is the persistence the service needs.
type ReservationStore interface {
	booking.MonthFinder
	WithRoomLock(ctx context.Context, roomID uint64, fn func(BookingTx) error) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context, p repository.Page) ([]model.Reservation, int64, error)
	Cancel(ctx context.Context, id uint64) (*model.Reservation, error)
}

// EventPublisher delivers reservation events after a write commits.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}

// CachePurger drops cached calendar responses.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// ReservationRequest is an already shape-validated create or update body.
type ReservationRequest struct {
	GuestID  uint64
	RoomID   uint64
	CheckIn  model.Date
	CheckOut model.Date
}

// ReservationService orchestrates reservation reads and writes.
type ReservationService struct {
	store      ReservationStore
	policy     booking.StatusPolicy
	aggregator *booking.Aggregator
	publisher  EventPublisher
	purger     CachePurger
	now        func() time.Time
}

// NewReservationService wires the service to the MySQL repository.
// publisher and purger may be nil.
func NewReservationService(repo *repository.ReservationRepo, policy booking.StatusPolicy, publisher EventPublisher, purger CachePurger) *ReservationService {
	if repo == nil {
		panic("nil repository passed to NewReservationService")
	}
	return newReservationService(repoStore{repo}, policy, publisher, purger)
}

func newReservationService(store ReservationStore, policy booking.StatusPolicy, publisher EventPublisher, purger CachePurger) *ReservationService {
	if policy == "" {
		policy = booking.ExcludeCanceled
	}
	return &ReservationService{
		store:      store,
		policy:     policy,
		aggregator: booking.NewAggregator(store, policy),
		publisher:  publisher,
		purger:     purger,
		now:        time.Now,
	}
}

// Policy returns the status policy used for conflicts and the calendar.
func (s *ReservationService) Policy() booking.StatusPolicy { return s.policy }

// Create books a room. The guest lookup, the conflict check and the insert
// run under the room lock so two overlapping requests cannot both succeed.
func (s *ReservationService) Create(ctx context.Context, req ReservationRequest) (*model.Reservation, error) {
	if !req.CheckOut.After(req.CheckIn.Time) {
		return nil, ErrInvalidStay
	}
	res := &model.Reservation{
		RoomID:       req.RoomID,
		GuestID:      req.GuestID,
		CheckInDate:  req.CheckIn,
		CheckOutDate: req.CheckOut,
		Status:       model.StatusActive,
	}
	err := s.store.WithRoomLock(ctx, req.RoomID, func(tx BookingTx) error {
		if err := requireGuest(ctx, tx, req.GuestID); err != nil {
			return err
		}
		cand := booking.Candidate{RoomID: req.RoomID, CheckIn: req.CheckIn, CheckOut: req.CheckOut}
		if err := booking.NewChecker(tx, s.policy).Check(ctx, cand); err != nil {
			return err
		}
		return tx.Create(ctx, res)
	})
	if err != nil {
		return nil, classify("create reservation", err)
	}
	s.afterWrite(ctx, queue.EventReservationCreated, *res)
	return res, nil
}

// Update moves an existing reservation to new dates, room or guest. The
// reservation is excluded from its own conflict check. Canceled
// reservations are rejected with ErrReservationCanceled.
func (s *ReservationService) Update(ctx context.Context, id uint64, req ReservationRequest) (*model.Reservation, error) {
	if !req.CheckOut.After(req.CheckIn.Time) {
		return nil, ErrInvalidStay
	}
	var res *model.Reservation
	err := s.store.WithRoomLock(ctx, req.RoomID, func(tx BookingTx) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.IsCanceled() {
			return ErrReservationCanceled
		}
		if err := requireGuest(ctx, tx, req.GuestID); err != nil {
			return err
		}
		cand := booking.Candidate{RoomID: req.RoomID, CheckIn: req.CheckIn, CheckOut: req.CheckOut, ExcludeID: id}
		if err := booking.NewChecker(tx, s.policy).Check(ctx, cand); err != nil {
			return err
		}
		current.RoomID = req.RoomID
		current.GuestID = req.GuestID
		current.CheckInDate = req.CheckIn
		current.CheckOutDate = req.CheckOut
		if err := tx.Update(ctx, current); err != nil {
			return err
		}
		res = current
		return nil
	})
	if err != nil {
		return nil, classify("update reservation", err)
	}
	s.afterWrite(ctx, queue.EventReservationUpdated, *res)
	return res, nil
}

// Cancel flags a reservation as canceled. The row is kept.
func (s *ReservationService) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.Cancel(ctx, id)
	if err != nil {
		return nil, classify("cancel reservation", err)
	}
	s.afterWrite(ctx, queue.EventReservationCanceled, *res)
	return res, nil
}

// Get returns one reservation.
func (s *ReservationService) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, classify("get reservation", err)
	}
	return res, nil
}

// List returns one page of reservations and the total count.
func (s *ReservationService) List(ctx context.Context, p repository.Page) ([]model.Reservation, int64, error) {
	items, total, err := s.store.List(ctx, p)
	if err != nil {
		return nil, 0, classify("list reservations", err)
	}
	return items, total, nil
}

// Calendar returns the busy-day map for a month.
func (s *ReservationService) Calendar(ctx context.Context, year, month int) (model.BusyDayMap, error) {
	return s.aggregator.BusyDays(ctx, year, month)
}

// afterWrite publishes the event and drops cached calendars. Both are best
// effort: the write has already committed.
func (s *ReservationService) afterWrite(ctx context.Context, eventType string, res model.Reservation) {
	// the write is committed; a client that went away must not cancel these
	ctx = context.WithoutCancel(ctx)
	if s.purger != nil {
		if err := s.purger.Purge(ctx); err != nil {
			log.Printf("reservation-service: calendar cache purge failed: %v", err)
		}
	}
	if s.publisher != nil {
		ev := queue.NewReservationEvent(eventType, res, s.now())
		_ = s.publisher.Publish(ctx, ev) // the publisher logs its own failures
	}
}

func requireGuest(ctx context.Context, tx BookingTx, guestID uint64) error {
	ok, err := tx.GuestExists(ctx, guestID)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrGuestNotFound
	}
	return nil
}

// classify passes domain errors through and marks everything else as a
// storage failure.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, booking.ErrConflict),
		errors.Is(err, booking.ErrStorageUnavailable),
		errors.Is(err, ErrReservationCanceled),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrGuestNotFound),
		errors.Is(err, repository.ErrReservationNotFound):
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, booking.ErrStorageUnavailable, err)
}

// repoStore adapts *repository.ReservationRepo to ReservationStore.
type repoStore struct {
	*repository.ReservationRepo
}

func (s repoStore) WithRoomLock(ctx context.Context, roomID uint64, fn func(BookingTx) error) error {
	return s.ReservationRepo.WithRoomLock(ctx, roomID, func(tx *repository.ReservationTx) error {
		return fn(tx)
	})
}
