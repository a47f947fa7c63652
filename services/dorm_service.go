package services

import (
	"errors"
	"fmt"

	"dormhub-backend/models"

	"gorm.io/gorm"
)

// DormService is the read side of the dorm directory. Dorm CRUD belongs
// to another service; room creation and authorization only need
// existence and ownership.
type DormService struct {
	DB *gorm.DB
}

func NewDormService(db *gorm.DB) *DormService {
	return &DormService{DB: db}
}

func (s *DormService) GetByID(dormID uint) (models.Dorm, error) {
	var dorm models.Dorm
	if err := s.DB.First(&dorm, dormID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dorm, ErrDormNotFound
		}
		return dorm, fmt.Errorf("failed to load dorm %d: %w", dormID, err)
	}
	return dorm, nil
}

// Authorizer answers the authorization questions this core consumes
// from the outside: "may this caller manage dorm X" and "may this
// caller act on booking Y". Handlers never decide this themselves.
type Authorizer interface {
	CanManageDorm(actorID, dormID uint) (bool, error)
	CanActOnBooking(actorID uint, booking models.Booking) (bool, error)
}

// dormOwnerAuthorizer grants dorm management to the owning admin and
// booking actions to the booking's user or the dorm's owning admin.
type dormOwnerAuthorizer struct {
	dorms *DormService
}

func NewDormOwnerAuthorizer(dorms *DormService) Authorizer {
	return &dormOwnerAuthorizer{dorms: dorms}
}

func (a *dormOwnerAuthorizer) CanManageDorm(actorID, dormID uint) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	dorm, err := a.dorms.GetByID(dormID)
	if err != nil {
		if errors.Is(err, ErrDormNotFound) {
			return false, nil
		}
		return false, err
	}
	return dorm.OwnerAdminID == actorID, nil
}

func (a *dormOwnerAuthorizer) CanActOnBooking(actorID uint, booking models.Booking) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	if booking.UserID == actorID {
		return true, nil
	}
	return a.CanManageDorm(actorID, booking.DormID)
}
