package services

import (
	"testing"
	"time"

	"dormhub-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The pool is
// pinned to one connection: that keeps the in-memory database alive and
// makes concurrent writers serialize the way the MySQL row lock does in
// production.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Dorm{},
		&models.Room{},
		&models.Booking{},
	))
	return db
}

func seedDorm(t *testing.T, db *gorm.DB, ownerAdminID uint) models.Dorm {
	t.Helper()
	dorm := models.Dorm{Name: "Test Residence", OwnerAdminID: ownerAdminID}
	require.NoError(t, db.Create(&dorm).Error)
	return dorm
}

type roomSpec struct {
	Number     string
	Floor      int
	Status     models.RoomStatus
	ResidentID uint
	MoveOut    *time.Time
}

func seedRoom(t *testing.T, db *gorm.DB, dormID uint, spec roomSpec) models.Room {
	t.Helper()
	if spec.Floor == 0 {
		spec.Floor = 1
	}
	if spec.Status == "" {
		spec.Status = models.RoomStatusAvailable
	}
	room := models.Room{
		DormID:        dormID,
		RoomNumber:    spec.Number,
		RoomType:      models.RoomTypeSingle,
		Capacity:      1,
		PricePerMonth: 300,
		Floor:         spec.Floor,
		Status:        spec.Status,
	}
	if spec.ResidentID != 0 {
		resident := spec.ResidentID
		room.CurrentResidentID = &resident
	}
	if spec.MoveOut != nil {
		room.ExpectedAvailableDate = spec.MoveOut
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func reloadRoom(t *testing.T, db *gorm.DB, roomID uint) models.Room {
	t.Helper()
	var room models.Room
	require.NoError(t, db.First(&room, roomID).Error)
	return room
}

// requireResidentInvariant asserts the core invariant: a resident is
// set iff the room is Reserved or Occupied.
func requireResidentInvariant(t *testing.T, room models.Room) {
	t.Helper()
	if room.Status.HasResident() {
		require.NotNil(t, room.CurrentResidentID,
			"room %d in status %s must have a resident", room.ID, room.Status)
	} else {
		require.Nil(t, room.CurrentResidentID,
			"room %d in status %s must not have a resident", room.ID, room.Status)
	}
}
