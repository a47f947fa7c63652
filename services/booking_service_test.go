package services

import (
	"strings"
	"testing"
	"time"

	"dormhub-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBookingInput(dormID, roomID uint) CreateBookingInput {
	return CreateBookingInput{
		UserID:        7,
		DormID:        dormID,
		RoomID:        roomID,
		MoveInDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		StayDuration:  6,
		DurationType:  models.DurationTypeMonth,
		PaymentMethod: "bank_transfer",
		TotalAmount:   1920,
	}
}

func TestCreateBookingConfirmsWhenRoomAvailable(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	room := seedRoom(t, db, dorm.ID, roomSpec{Number: "101"})
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	result, err := svc.Create(validBookingInput(dorm.ID, room.ID))
	require.NoError(t, err)
	require.NoError(t, result.ReservationErr)

	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
	assert.True(t, strings.HasPrefix(result.Booking.ReferenceCode, "BK-"))

	reserved := reloadRoom(t, db, room.ID)
	assert.Equal(t, models.RoomStatusReserved, reserved.Status)
	require.NotNil(t, reserved.CurrentResidentID)
	assert.Equal(t, uint(7), *reserved.CurrentResidentID)
	requireResidentInvariant(t, reserved)
}

func TestCreateBookingKeepsPendingWhenRoomTaken(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	room := seedRoom(t, db, dorm.ID, roomSpec{Number: "101"})
	rooms := NewRoomLifecycleService(db)
	svc := NewBookingService(db, rooms)

	// another flow grabs the room between booking creation and the
	// coordinator run
	_, err := rooms.Reserve(room.ID, 99, time.Now())
	require.NoError(t, err)

	result, err := svc.Create(validBookingInput(dorm.ID, room.ID))
	require.NoError(t, err, "a reservation failure must not fail the booking request")
	assert.ErrorIs(t, result.ReservationErr, ErrRoomNotAvailable)
	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)

	// the booking survived as Pending
	stored, err := svc.GetByID(result.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)

	// the concurrent actor's reservation is untouched
	reserved := reloadRoom(t, db, room.ID)
	require.NotNil(t, reserved.CurrentResidentID)
	assert.Equal(t, uint(99), *reserved.CurrentResidentID)
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	room := seedRoom(t, db, dorm.ID, roomSpec{Number: "101"})
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	mutations := []func(*CreateBookingInput){
		func(in *CreateBookingInput) { in.UserID = 0 },
		func(in *CreateBookingInput) { in.MoveInDate = time.Time{} },
		func(in *CreateBookingInput) { in.StayDuration = 0 },
		func(in *CreateBookingInput) { in.DurationType = "decade" },
		func(in *CreateBookingInput) { in.TotalAmount = -1 },
	}
	for i, mutate := range mutations {
		input := validBookingInput(dorm.ID, room.ID)
		mutate(&input)
		_, err := svc.Create(input)
		assert.True(t, IsValidationError(err), "case %d should fail validation", i)
	}
}

func TestCreateBookingRejectsRoomFromOtherDorm(t *testing.T) {
	db := newTestDB(t)
	dormA := seedDorm(t, db, 1)
	dormB := seedDorm(t, db, 2)
	room := seedRoom(t, db, dormB.ID, roomSpec{Number: "101"})
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	input := validBookingInput(dormA.ID, room.ID)
	_, err := svc.Create(input)
	assert.True(t, IsValidationError(err))
}

func TestCreateBookingUnknownRoom(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	_, err := svc.Create(validBookingInput(dorm.ID, 9999))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRetryReservation(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	room := seedRoom(t, db, dorm.ID, roomSpec{Number: "101"})
	rooms := NewRoomLifecycleService(db)
	svc := NewBookingService(db, rooms)

	// block the room so the booking lands as Pending
	_, err := rooms.Reserve(room.ID, 99, time.Now())
	require.NoError(t, err)

	created, err := svc.Create(validBookingInput(dorm.ID, room.ID))
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, created.Booking.Status)

	// still blocked: retry reports the failure, booking stays Pending
	result, err := svc.RetryReservation(created.Booking.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, result.ReservationErr, ErrRoomNotAvailable)
	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)

	// the other resident leaves, the room frees up
	_, err = rooms.MoveIn(room.ID, 99)
	require.NoError(t, err)
	_, err = rooms.MoveOut(room.ID, 99)
	require.NoError(t, err)

	result, err = svc.RetryReservation(created.Booking.ID)
	require.NoError(t, err)
	require.NoError(t, result.ReservationErr)
	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)

	// idempotent: a second retry is a no-op success
	result, err = svc.RetryReservation(created.Booking.ID)
	require.NoError(t, err)
	require.NoError(t, result.ReservationErr)
	assert.Equal(t, models.BookingStatusConfirmed, result.Booking.Status)
}

func TestRetryReservationCancelledBooking(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	room := seedRoom(t, db, dorm.ID, roomSpec{Number: "101", Status: models.RoomStatusReserved, ResidentID: 99})
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	created, err := svc.Create(validBookingInput(dorm.ID, room.ID))
	require.NoError(t, err)

	_, err = svc.Cancel(created.Booking.ID)
	require.NoError(t, err)

	_, err = svc.RetryReservation(created.Booking.ID)
	assert.ErrorIs(t, err, ErrBookingCancelled)
}

func TestCancelAndConfirmTransitions(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	room := seedRoom(t, db, dorm.ID, roomSpec{Number: "101", Status: models.RoomStatusReserved, ResidentID: 99})
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	created, err := svc.Create(validBookingInput(dorm.ID, room.ID))
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusPending, created.Booking.Status)

	confirmed, err := svc.Confirm(created.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, confirmed.Status)

	cancelled, err := svc.Cancel(created.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)

	// cancel is idempotent
	again, err := svc.Cancel(created.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, again.Status)

	// a cancelled booking cannot be confirmed
	_, err = svc.Confirm(created.Booking.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListBookingsFilters(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	roomA := seedRoom(t, db, dorm.ID, roomSpec{Number: "101"})
	roomB := seedRoom(t, db, dorm.ID, roomSpec{Number: "102"})
	svc := NewBookingService(db, NewRoomLifecycleService(db))

	first, err := svc.Create(validBookingInput(dorm.ID, roomA.ID))
	require.NoError(t, err)
	require.NoError(t, first.ReservationErr)

	secondInput := validBookingInput(dorm.ID, roomB.ID)
	secondInput.UserID = 8
	second, err := svc.Create(secondInput)
	require.NoError(t, err)
	require.NoError(t, second.ReservationErr)

	all, err := svc.List(BookingFilter{DormID: dorm.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(BookingFilter{UserID: 8})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.Booking.ID, mine[0].ID)

	confirmed, err := svc.List(BookingFilter{DormID: dorm.ID, Status: models.BookingStatusConfirmed})
	require.NoError(t, err)
	assert.Len(t, confirmed, 2)

	_, err = svc.List(BookingFilter{Status: "Weird"})
	assert.True(t, IsValidationError(err))
}
