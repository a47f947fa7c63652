package services

import (
	"testing"
	"time"

	"dormhub-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccupancyCountsSumToTotal(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	svc := NewRoomStatsService(db)

	seedRoom(t, db, dorm.ID, roomSpec{Number: "101"})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "102"})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "103", Status: models.RoomStatusReserved, ResidentID: 5})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "104", Status: models.RoomStatusOccupied, ResidentID: 6})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "105", Status: models.RoomStatusOccupied, ResidentID: 7})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "106", Status: models.RoomStatusMaintenance})

	// a room in another dorm must not leak into the counts
	other := seedDorm(t, db, 2)
	seedRoom(t, db, other.ID, roomSpec{Number: "101"})

	stats, err := svc.Occupancy(dorm.ID)
	require.NoError(t, err)

	c := stats.Counts
	assert.Equal(t, int64(2), c.Available)
	assert.Equal(t, int64(1), c.Reserved)
	assert.Equal(t, int64(2), c.Occupied)
	assert.Equal(t, int64(1), c.Maintenance)
	assert.Equal(t, int64(6), c.Total)
	assert.Equal(t, c.Available+c.Reserved+c.Occupied+c.Maintenance, c.Total)

	assert.InDelta(t, 100.0*2/6, stats.OccupancyPercent, 0.001)
}

func TestOccupancyEmptyDorm(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	svc := NewRoomStatsService(db)

	stats, err := svc.Occupancy(dorm.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Counts.Total)
	assert.Equal(t, 0.0, stats.OccupancyPercent)
}

func TestRoomsByFloor(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	svc := NewRoomStatsService(db)

	seedRoom(t, db, dorm.ID, roomSpec{Number: "101", Floor: 1})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "102", Floor: 1, Status: models.RoomStatusOccupied, ResidentID: 5})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "301", Floor: 3, Status: models.RoomStatusMaintenance})

	groups, err := svc.RoomsByFloor(dorm.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, 1, groups[0].Floor)
	assert.Equal(t, int64(1), groups[0].Counts.Available)
	assert.Equal(t, int64(1), groups[0].Counts.Occupied)
	assert.Equal(t, int64(2), groups[0].Counts.Total)
	assert.Len(t, groups[0].Rooms, 2)

	assert.Equal(t, 3, groups[1].Floor)
	assert.Equal(t, int64(1), groups[1].Counts.Maintenance)
	assert.Equal(t, int64(1), groups[1].Counts.Total)

	total := int64(0)
	for _, g := range groups {
		total += g.Counts.Total
	}
	assert.Equal(t, int64(3), total, "per-floor counts must cover every room")
}

func TestUpcomingAvailable(t *testing.T) {
	db := newTestDB(t)
	dorm := seedDorm(t, db, 1)
	svc := NewRoomStatsService(db)

	soon := time.Now().AddDate(0, 0, 5)
	far := time.Now().AddDate(0, 0, 30)

	within := seedRoom(t, db, dorm.ID, roomSpec{Number: "101", Status: models.RoomStatusOccupied, ResidentID: 5, MoveOut: &soon})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "102", Status: models.RoomStatusOccupied, ResidentID: 6, MoveOut: &far})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "103", Status: models.RoomStatusOccupied, ResidentID: 7})
	seedRoom(t, db, dorm.ID, roomSpec{Number: "104"})

	rooms, err := svc.UpcomingAvailable(dorm.ID, 14)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, within.ID, rooms[0].ID)

	// a wider lookahead picks up the later vacancy too
	rooms, err = svc.UpcomingAvailable(dorm.ID, 60)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	// dormID 0 means all dorms
	rooms, err = svc.UpcomingAvailable(0, 14)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	_, err = svc.UpcomingAvailable(dorm.ID, 0)
	assert.True(t, IsValidationError(err))
}
