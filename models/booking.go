package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking is the user-side request/audit record for occupying a room. It
// references the room but does not own its lifecycle: after a failed
// reservation a Pending booking can legitimately point at an Available
// room until an admin retries or cancels it. Bookings are never deleted,
// only status-transitioned.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"index;column:user_id" json:"userId"`
	DormID uint `gorm:"index;column:dorm_id" json:"dormId"`
	RoomID uint `gorm:"index;column:room_id" json:"roomId"`

	ReferenceCode string        `gorm:"column:reference_code;uniqueIndex;size:64" json:"referenceCode,omitempty"`
	Status        BookingStatus `gorm:"column:status;size:32;default:Pending" json:"status"`

	MoveInDate   time.Time    `gorm:"column:move_in_date" json:"moveInDate"`
	StayDuration int          `gorm:"column:stay_duration" json:"stayDuration"`
	DurationType DurationType `gorm:"column:duration_type;size:32" json:"durationType"`

	PaymentMethod  string  `gorm:"column:payment_method;size:64" json:"paymentMethod,omitempty"`
	PaymentSlipURL string  `gorm:"column:payment_slip_url;size:255" json:"paymentSlipUrl,omitempty"`
	BookingFeePaid bool    `gorm:"column:booking_fee_paid;default:false" json:"bookingFeePaid"`
	TotalAmount    float64 `gorm:"column:total_amount" json:"totalAmount"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Dorm Dorm `gorm:"foreignKey:DormID;references:ID" json:"dorm,omitempty"`
}
