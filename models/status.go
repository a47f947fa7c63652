package models

// RoomStatus is the lifecycle state of a room. Transitions are owned by
// services.RoomLifecycleService; nothing else writes this column.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusReserved    RoomStatus = "Reserved"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

func (rs RoomStatus) String() string {
	return string(rs)
}

func (rs RoomStatus) IsValid() bool {
	switch rs {
	case RoomStatusAvailable, RoomStatusReserved, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	default:
		return false
	}
}

// HasResident reports whether a room in this status must carry a resident.
func (rs RoomStatus) HasResident() bool {
	return rs == RoomStatusReserved || rs == RoomStatusOccupied
}

func AllRoomStatuses() []RoomStatus {
	return []RoomStatus{RoomStatusAvailable, RoomStatusReserved, RoomStatusOccupied, RoomStatusMaintenance}
}

type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeTriple RoomType = "Triple"
)

func (rt RoomType) IsValid() bool {
	switch rt {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeTriple:
		return true
	default:
		return false
	}
}

// BookingStatus is the booking's own state, independent of the room's.
// A booking is a request/audit record; the room stays the source of truth
// for occupancy.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether the booking still claims its room for the
// purposes of the room-deletion guard.
func (bs BookingStatus) IsActive() bool {
	return bs == BookingStatusPending || bs == BookingStatusConfirmed
}

type DurationType string

const (
	DurationTypeMonth    DurationType = "month"
	DurationTypeSemester DurationType = "semester"
	DurationTypeYear     DurationType = "year"
)

func (dt DurationType) IsValid() bool {
	switch dt {
	case DurationTypeMonth, DurationTypeSemester, DurationTypeYear:
		return true
	default:
		return false
	}
}
