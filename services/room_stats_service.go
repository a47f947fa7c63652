package services

import (
	"fmt"
	"time"

	"dormhub-backend/models"

	"gorm.io/gorm"
)

// RoomStatsService is the read-only aggregation side consumed by the
// admin dashboard. No method here writes anything.
type RoomStatsService struct {
	DB *gorm.DB
}

func NewRoomStatsService(db *gorm.DB) *RoomStatsService {
	return &RoomStatsService{DB: db}
}

// StatusCounts holds per-status room counts. The four buckets always
// sum to Total.
type StatusCounts struct {
	Available   int64 `json:"available"`
	Reserved    int64 `json:"reserved"`
	Occupied    int64 `json:"occupied"`
	Maintenance int64 `json:"maintenance"`
	Total       int64 `json:"total"`
}

func (c *StatusCounts) add(status models.RoomStatus, n int64) {
	switch status {
	case models.RoomStatusAvailable:
		c.Available += n
	case models.RoomStatusReserved:
		c.Reserved += n
	case models.RoomStatusOccupied:
		c.Occupied += n
	case models.RoomStatusMaintenance:
		c.Maintenance += n
	}
	c.Total += n
}

type OccupancyStats struct {
	DormID           uint         `json:"dormId"`
	Counts           StatusCounts `json:"counts"`
	OccupancyPercent float64      `json:"occupancyPercent"`
}

type statusCountRow struct {
	Status models.RoomStatus
	N      int64
}

func (s *RoomStatsService) countByStatus(q *gorm.DB) (StatusCounts, error) {
	var rows []statusCountRow
	if err := q.Model(&models.Room{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return StatusCounts{}, fmt.Errorf("failed to count rooms by status: %w", err)
	}

	var counts StatusCounts
	for _, row := range rows {
		counts.add(row.Status, row.N)
	}
	return counts, nil
}

// Occupancy returns per-status counts and the occupied share across all
// rooms of a dorm.
func (s *RoomStatsService) Occupancy(dormID uint) (OccupancyStats, error) {
	counts, err := s.countByStatus(s.DB.Where("dorm_id = ?", dormID))
	if err != nil {
		return OccupancyStats{}, err
	}

	stats := OccupancyStats{DormID: dormID, Counts: counts}
	if counts.Total > 0 {
		stats.OccupancyPercent = float64(counts.Occupied) / float64(counts.Total) * 100
	}
	return stats, nil
}

type FloorStats struct {
	Floor  int           `json:"floor"`
	Counts StatusCounts  `json:"counts"`
	Rooms  []models.Room `json:"rooms"`
}

// RoomsByFloor groups a dorm's rooms by floor, each group carrying its
// own per-status counts. Floors come back in ascending order.
func (s *RoomStatsService) RoomsByFloor(dormID uint) ([]FloorStats, error) {
	var rooms []models.Room
	if err := s.DB.
		Where("dorm_id = ?", dormID).
		Order("floor, room_number").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms for dorm %d: %w", dormID, err)
	}

	byFloor := map[int]*FloorStats{}
	floors := []int{}
	for _, room := range rooms {
		group, ok := byFloor[room.Floor]
		if !ok {
			group = &FloorStats{Floor: room.Floor}
			byFloor[room.Floor] = group
			floors = append(floors, room.Floor)
		}
		group.Counts.add(room.Status, 1)
		group.Rooms = append(group.Rooms, room)
	}

	out := make([]FloorStats, 0, len(floors))
	for _, floor := range floors {
		out = append(out, *byFloor[floor])
	}
	return out, nil
}

// UpcomingAvailable lists rooms that are Occupied now but expected to
// free up within the next `days` days, so staff can line up the next
// tenant before the room physically empties.
func (s *RoomStatsService) UpcomingAvailable(dormID uint, days int) ([]models.Room, error) {
	if days <= 0 {
		return nil, NewValidationError("days", "must be positive")
	}

	now := time.Now()
	until := now.AddDate(0, 0, days)

	q := s.DB.
		Where("status = ?", models.RoomStatusOccupied).
		Where("expected_available_date IS NOT NULL").
		Where("expected_available_date >= ? AND expected_available_date <= ?", now, until).
		Order("expected_available_date")
	if dormID != 0 {
		q = q.Where("dorm_id = ?", dormID)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load upcoming availability: %w", err)
	}
	return rooms, nil
}
