package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"dormhub-backend/models"
	"dormhub-backend/utils"

	"gorm.io/gorm"
)

// BookingService persists booking records and runs the reservation
// coordinator. A booking and its room live in separate aggregates on
// purpose: creation is two-phase (persist Pending, then try to reserve),
// and a failed reservation leaves the Pending booking behind for an
// admin to retry or cancel.
type BookingService struct {
	DB    *gorm.DB
	Rooms *RoomLifecycleService
}

func NewBookingService(db *gorm.DB, rooms *RoomLifecycleService) *BookingService {
	return &BookingService{DB: db, Rooms: rooms}
}

type CreateBookingInput struct {
	UserID         uint
	DormID         uint
	RoomID         uint
	MoveInDate     time.Time
	StayDuration   int
	DurationType   models.DurationType
	PaymentMethod  string
	PaymentSlipURL string
	BookingFeePaid bool
	TotalAmount    float64
}

func (in CreateBookingInput) validate() error {
	if in.UserID == 0 {
		return NewValidationError("userId", "required")
	}
	if in.DormID == 0 {
		return NewValidationError("dormId", "required")
	}
	if in.RoomID == 0 {
		return NewValidationError("roomId", "required")
	}
	if in.MoveInDate.IsZero() {
		return NewValidationError("moveInDate", "required")
	}
	if in.StayDuration <= 0 {
		return NewValidationError("stayDuration", "must be positive")
	}
	if !in.DurationType.IsValid() {
		return NewValidationError("durationType", "must be month, semester or year")
	}
	if in.TotalAmount < 0 {
		return NewValidationError("totalAmount", "must not be negative")
	}
	return nil
}

// BookingResult carries the persisted booking plus the reservation
// outcome. ReservationErr is non-fatal: the booking exists either way.
type BookingResult struct {
	Booking        models.Booking
	ReservationErr error
}

// Create persists a Pending booking, then invokes the reservation
// coordinator. A reservation failure does not fail the request — the
// booking is returned as Pending with the failure attached as a warning.
func (s *BookingService) Create(input CreateBookingInput) (BookingResult, error) {
	if err := input.validate(); err != nil {
		return BookingResult{}, err
	}

	// The room must exist and belong to the requested dorm before we
	// record anything.
	room, err := s.Rooms.GetByID(input.RoomID)
	if err != nil {
		return BookingResult{}, err
	}
	if room.DormID != input.DormID {
		return BookingResult{}, NewValidationError("roomId", "room does not belong to the requested dorm")
	}

	booking := models.Booking{
		UserID:         input.UserID,
		DormID:         input.DormID,
		RoomID:         input.RoomID,
		Status:         models.BookingStatusPending,
		MoveInDate:     input.MoveInDate,
		StayDuration:   input.StayDuration,
		DurationType:   input.DurationType,
		PaymentMethod:  strings.TrimSpace(input.PaymentMethod),
		PaymentSlipURL: strings.TrimSpace(input.PaymentSlipURL),
		BookingFeePaid: input.BookingFeePaid,
		TotalAmount:    input.TotalAmount,
	}

	// retry reference generation on a unique collision
	maxRetries := 5
	var createErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		ref, gErr := utils.GenerateReferenceCode("BK", 8)
		if gErr != nil {
			return BookingResult{}, fmt.Errorf("failed to generate reference code: %w", gErr)
		}
		booking.ReferenceCode = ref

		createErr = s.DB.Create(&booking).Error
		if createErr == nil {
			break
		}
		lc := strings.ToLower(createErr.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint") {
			log.Printf("booking reference collision (attempt %d) - retrying", attempt+1)
			continue
		}
		return BookingResult{}, fmt.Errorf("failed to create booking: %w", createErr)
	}
	if createErr != nil {
		return BookingResult{}, fmt.Errorf("failed to create booking after retries: %w", createErr)
	}

	reservationErr := s.AttemptReserveAfterBooking(&booking)
	return BookingResult{Booking: booking, ReservationErr: reservationErr}, nil
}

// AttemptReserveAfterBooking is the reservation coordinator: try to
// reserve the booked room for the booking's user, and confirm the
// booking only when that succeeds. On failure the booking stays Pending
// and nothing else is written.
func (s *BookingService) AttemptReserveAfterBooking(booking *models.Booking) error {
	if _, err := s.Rooms.Reserve(booking.RoomID, booking.UserID, booking.MoveInDate); err != nil {
		log.Printf("⚠️ booking %s: room %d reservation failed, keeping Pending: %v",
			booking.ReferenceCode, booking.RoomID, err)
		return err
	}

	res := s.DB.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, models.BookingStatusPending).
		Updates(map[string]interface{}{"status": models.BookingStatusConfirmed})
	if res.Error != nil {
		return fmt.Errorf("failed to confirm booking %d: %w", booking.ID, res.Error)
	}
	booking.Status = models.BookingStatusConfirmed
	return nil
}

// RetryReservation is the admin-facing, idempotent repair for the
// two-phase divergence: a Confirmed booking is a no-op success, a
// Pending booking re-runs the coordinator.
func (s *BookingService) RetryReservation(bookingID uint) (BookingResult, error) {
	booking, err := s.GetByID(bookingID)
	if err != nil {
		return BookingResult{}, err
	}

	switch booking.Status {
	case models.BookingStatusCancelled:
		return BookingResult{}, ErrBookingCancelled
	case models.BookingStatusConfirmed:
		return BookingResult{Booking: booking}, nil
	}

	reservationErr := s.AttemptReserveAfterBooking(&booking)
	return BookingResult{Booking: booking, ReservationErr: reservationErr}, nil
}

// Confirm flips a Pending booking to Confirmed without touching the
// room. Used by owners/admins who resolved the room side manually.
func (s *BookingService) Confirm(bookingID uint) (models.Booking, error) {
	return s.transition(bookingID, models.BookingStatusConfirmed,
		[]models.BookingStatus{models.BookingStatusPending})
}

// Cancel ends a booking. The room itself is untouched: freeing it stays
// a staff move-out (or maintenance) decision.
func (s *BookingService) Cancel(bookingID uint) (models.Booking, error) {
	return s.transition(bookingID, models.BookingStatusCancelled,
		[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed})
}

func (s *BookingService) transition(bookingID uint, to models.BookingStatus, from []models.BookingStatus) (models.Booking, error) {
	res := s.DB.Model(&models.Booking{}).
		Where("id = ? AND status IN ?", bookingID, from).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return models.Booking{}, fmt.Errorf("failed to set booking %d to %s: %w", bookingID, to, res.Error)
	}
	if res.RowsAffected == 0 {
		booking, err := s.GetByID(bookingID)
		if err != nil {
			return models.Booking{}, err
		}
		if booking.Status == to {
			// already there, keep the operation idempotent
			return booking, nil
		}
		return models.Booking{}, ErrInvalidTransition
	}
	return s.GetByID(bookingID)
}

func (s *BookingService) GetByID(bookingID uint) (models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("Room").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking, ErrBookingNotFound
		}
		return booking, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	return booking, nil
}

// BookingFilter narrows List. Zero values mean "no filter".
type BookingFilter struct {
	DormID uint
	UserID uint
	Status models.BookingStatus
}

func (s *BookingService) List(filter BookingFilter) ([]models.Booking, error) {
	q := s.DB.Preload("Room").Order("created_at DESC")
	if filter.DormID != 0 {
		q = q.Where("dorm_id = ?", filter.DormID)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, NewValidationError("status", "unknown booking status")
		}
		q = q.Where("status = ?", filter.Status)
	}

	var list []models.Booking
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return list, nil
}
