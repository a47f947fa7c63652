package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	// DormID is immutable after creation; room numbers are unique per dorm.
	DormID     uint   `json:"dormId" gorm:"column:dorm_id;index;uniqueIndex:idx_dorm_room_number"`
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex:idx_dorm_room_number;type:varchar(50)"`

	RoomType      RoomType `json:"roomType" gorm:"column:room_type;size:32"`
	Capacity      int      `json:"capacity"`
	PricePerMonth float64  `json:"pricePerMonth" gorm:"column:price_per_month"`
	Floor         int      `json:"floor"`
	Zone          string   `json:"zone" gorm:"type:varchar(50)"`
	Description   string   `json:"description" gorm:"type:text"`

	Amenities datatypes.JSON `json:"amenities,omitempty" gorm:"column:amenities"`
	Images    datatypes.JSON `json:"images,omitempty" gorm:"column:images"`

	// Lifecycle fields. CurrentResidentID is non-nil iff Status is
	// Reserved or Occupied; only the lifecycle service touches these.
	Status                RoomStatus `json:"status" gorm:"size:32;default:Available"`
	CurrentResidentID     *uint      `json:"currentResidentId,omitempty" gorm:"column:current_resident_id;index"`
	ExpectedMoveInDate    *time.Time `json:"expectedMoveInDate,omitempty" gorm:"column:expected_move_in_date"`
	ExpectedAvailableDate *time.Time `json:"expectedAvailableDate,omitempty" gorm:"column:expected_available_date"`

	Dorm Dorm `json:"dorm,omitempty" gorm:"foreignKey:DormID"`
}
