package services

import (
	"errors"
	"fmt"
	"time"

	"dormhub-backend/models"
	"dormhub-backend/utils"

	"gorm.io/gorm"
)

// RoomLifecycleService owns every write to a room's status and resident
// fields. All transitions are guarded single-statement updates: the
// precondition sits in the WHERE clause, so two concurrent callers can
// never both pass the same check.
type RoomLifecycleService struct {
	DB *gorm.DB
}

func NewRoomLifecycleService(db *gorm.DB) *RoomLifecycleService {
	return &RoomLifecycleService{DB: db}
}

func (s *RoomLifecycleService) GetByID(roomID uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return room, ErrRoomNotFound
		}
		return room, fmt.Errorf("failed to load room %d: %w", roomID, err)
	}
	return room, nil
}

// RoomFilter narrows List. Zero values mean "no filter".
type RoomFilter struct {
	DormID uint
	Status models.RoomStatus
	Floor  int
}

func (s *RoomLifecycleService) List(filter RoomFilter) ([]models.Room, error) {
	q := s.DB.Order("dorm_id, room_number")
	if filter.DormID != 0 {
		q = q.Where("dorm_id = ?", filter.DormID)
	}
	if filter.Status != "" {
		if !filter.Status.IsValid() {
			return nil, NewValidationError("status", "unknown room status")
		}
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Floor != 0 {
		q = q.Where("floor = ?", filter.Floor)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomLifecycleService) Create(room *models.Room) error {
	if room.DormID == 0 {
		return NewValidationError("dormId", "required")
	}
	if room.RoomNumber == "" {
		return NewValidationError("roomNumber", "required")
	}
	if !room.RoomType.IsValid() {
		return NewValidationError("roomType", "must be Single, Double or Triple")
	}
	if room.Capacity <= 0 {
		return NewValidationError("capacity", "must be positive")
	}
	if room.PricePerMonth < 0 {
		return NewValidationError("pricePerMonth", "must not be negative")
	}
	if room.Floor < 1 {
		return NewValidationError("floor", "must be >= 1")
	}

	// New rooms always start empty and Available, regardless of payload.
	room.Status = models.RoomStatusAvailable
	room.CurrentResidentID = nil
	room.ExpectedMoveInDate = nil
	room.ExpectedAvailableDate = nil

	return s.DB.Create(room).Error
}

// Reserve is the compare-and-set at the heart of the subsystem: the
// Available check and the Reserved write are one UPDATE, so out of N
// concurrent attempts exactly one can see RowsAffected == 1.
func (s *RoomLifecycleService) Reserve(roomID, userID uint, moveInDate time.Time) (models.Room, error) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, models.RoomStatusAvailable).
		Updates(map[string]interface{}{
			"status":                models.RoomStatusReserved,
			"current_resident_id":   userID,
			"expected_move_in_date": moveInDate,
		})
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("failed to reserve room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetByID(roomID); err != nil {
			return models.Room{}, err
		}
		return models.Room{}, ErrRoomNotAvailable
	}
	return s.GetByID(roomID)
}

// MoveIn advances Reserved -> Occupied for the resident who reserved it.
func (s *RoomLifecycleService) MoveIn(roomID, userID uint) (models.Room, error) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ? AND current_resident_id = ?",
			roomID, models.RoomStatusReserved, userID).
		Updates(map[string]interface{}{"status": models.RoomStatusOccupied})
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("failed to move in room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Room{}, s.explainResidentGuardFailure(roomID, userID, models.RoomStatusReserved)
	}
	return s.GetByID(roomID)
}

// SetMoveOutDate schedules an upcoming vacancy without freeing the room.
func (s *RoomLifecycleService) SetMoveOutDate(roomID, userID uint, date time.Time) (models.Room, error) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ? AND current_resident_id = ?",
			roomID, models.RoomStatusOccupied, userID).
		Updates(map[string]interface{}{"expected_available_date": date})
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("failed to set move-out date for room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Room{}, s.explainResidentGuardFailure(roomID, userID, models.RoomStatusOccupied)
	}
	return s.GetByID(roomID)
}

// MoveOut returns an Occupied room to its pre-reservation state.
func (s *RoomLifecycleService) MoveOut(roomID, userID uint) (models.Room, error) {
	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ? AND current_resident_id = ?",
			roomID, models.RoomStatusOccupied, userID).
		Updates(map[string]interface{}{
			"status":                  models.RoomStatusAvailable,
			"current_resident_id":     nil,
			"expected_move_in_date":   nil,
			"expected_available_date": nil,
		})
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("failed to move out room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Room{}, s.explainResidentGuardFailure(roomID, userID, models.RoomStatusOccupied)
	}
	return s.GetByID(roomID)
}

// SetAvailability is the admin maintenance toggle. available=false only
// takes an empty room out of service; available=true only brings a room
// back from Maintenance. A room is never forced out from under a
// resident.
func (s *RoomLifecycleService) SetAvailability(roomID uint, available bool) (models.Room, error) {
	from, to := models.RoomStatusMaintenance, models.RoomStatusAvailable
	if !available {
		from, to = models.RoomStatusAvailable, models.RoomStatusMaintenance
	}

	res := s.DB.Model(&models.Room{}).
		Where("id = ? AND status = ?", roomID, from).
		Updates(map[string]interface{}{"status": to})
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("failed to toggle availability for room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		room, err := s.GetByID(roomID)
		if err != nil {
			return models.Room{}, err
		}
		if room.Status.HasResident() {
			return models.Room{}, ErrRoomOccupied
		}
		return models.Room{}, ErrInvalidTransition
	}
	return s.GetByID(roomID)
}

// Update mutates descriptive fields only. The patch goes through
// NormalizeRoomPatch, which canonicalizes alias keys and rejects both
// unknown fields and anything lifecycle-owned (status, resident, dates).
func (s *RoomLifecycleService) Update(roomID uint, patch map[string]interface{}) (models.Room, error) {
	normalized, err := utils.NormalizeRoomPatch(patch)
	if err != nil {
		return models.Room{}, NewValidationError("", err.Error())
	}
	if len(normalized) == 0 {
		return models.Room{}, NewValidationError("", "empty update")
	}

	res := s.DB.Model(&models.Room{}).Where("id = ?", roomID).Updates(normalized)
	if res.Error != nil {
		return models.Room{}, fmt.Errorf("failed to update room %d: %w", roomID, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetByID(roomID); err != nil {
			return models.Room{}, err
		}
		// row exists, patch was a no-op
	}
	return s.GetByID(roomID)
}

// Delete removes a room unless a Pending or Confirmed booking still
// references it.
func (s *RoomLifecycleService) Delete(roomID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ? AND status IN ?", roomID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active bookings for room %d: %w", roomID, err)
		}
		if active > 0 {
			return ErrRoomHasActiveBooking
		}

		res := tx.Delete(&models.Room{}, roomID)
		if res.Error != nil {
			return fmt.Errorf("failed to delete room %d: %w", roomID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRoomNotFound
		}
		return nil
	})
}

// explainResidentGuardFailure reloads the room to report why a guarded
// resident transition matched nothing.
func (s *RoomLifecycleService) explainResidentGuardFailure(roomID, userID uint, wantStatus models.RoomStatus) error {
	room, err := s.GetByID(roomID)
	if err != nil {
		return err
	}
	if room.Status != wantStatus {
		return ErrInvalidTransition
	}
	if room.CurrentResidentID == nil || *room.CurrentResidentID != userID {
		return ErrResidentMismatch
	}
	// Guard matched on the reload; the row changed between the UPDATE and
	// now. Treat it as a lost race on the transition.
	return ErrInvalidTransition
}
