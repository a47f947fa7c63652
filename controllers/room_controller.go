package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"dormhub-backend/models"
	"dormhub-backend/services"
	"dormhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
)

type RoomController struct {
	Rooms *services.RoomLifecycleService
	Dorms *services.DormService
	Stats *services.RoomStatsService
	Authz services.Authorizer
}

func NewRoomController(rooms *services.RoomLifecycleService, dorms *services.DormService, stats *services.RoomStatsService, authz services.Authorizer) *RoomController {
	return &RoomController{Rooms: rooms, Dorms: dorms, Stats: stats, Authz: authz}
}

// requireDormAdmin resolves the acting user and checks dorm management
// rights; responds itself on failure.
func (rc *RoomController) requireDormAdmin(c *gin.Context, dormID uint) (uint, bool) {
	actorID, ok := requireActingUser(c)
	if !ok {
		return 0, false
	}
	allowed, err := rc.Authz.CanManageDorm(actorID, dormID)
	if err != nil {
		respondServiceError(c, err)
		return 0, false
	}
	if !allowed {
		forbid(c)
		return 0, false
	}
	return actorID, true
}

// GetRooms (GET /api/rooms?dormId=&status=&floor=)
func (rc *RoomController) GetRooms(c *gin.Context) {
	filter := services.RoomFilter{
		DormID: uintQuery(c, "dormId"),
		Status: models.RoomStatus(strings.TrimSpace(c.Query("status"))),
	}
	if raw := strings.TrimSpace(c.Query("floor")); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid floor parameter")
			return
		}
		filter.Floor = floor
	}

	rooms, err := rc.Rooms.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GetRoom (GET /api/rooms/:id)
func (rc *RoomController) GetRoom(c *gin.Context) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

type createRoomRequest struct {
	DormID        uint            `json:"dormId" binding:"required"`
	RoomNumber    string          `json:"roomNumber" binding:"required"`
	RoomType      models.RoomType `json:"roomType" binding:"required"`
	Capacity      int             `json:"capacity" binding:"required"`
	PricePerMonth float64         `json:"pricePerMonth"`
	Floor         int             `json:"floor" binding:"required"`
	Zone          string          `json:"zone"`
	Description   string          `json:"description"`
	Amenities     json.RawMessage `json:"amenities"`
	Images        json.RawMessage `json:"images"`
}

// CreateRoom (POST /api/rooms)
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if _, ok := rc.requireDormAdmin(c, req.DormID); !ok {
		return
	}
	if _, err := rc.Dorms.GetByID(req.DormID); err != nil {
		respondServiceError(c, err)
		return
	}

	room := models.Room{
		DormID:        req.DormID,
		RoomNumber:    strings.TrimSpace(req.RoomNumber),
		RoomType:      req.RoomType,
		Capacity:      req.Capacity,
		PricePerMonth: req.PricePerMonth,
		Floor:         req.Floor,
		Zone:          strings.TrimSpace(req.Zone),
		Description:   req.Description,
		Amenities:     []byte(req.Amenities),
		Images:        []byte(req.Images),
	}

	if err := rc.Rooms.Create(&room); err != nil {
		if isDuplicateKeyError(err) {
			log.Printf("❌ Duplicate room number %q in dorm %d", room.RoomNumber, room.DormID)
			utils.JSONError(c, http.StatusConflict,
				fmt.Sprintf("room number '%s' already exists in this dorm", room.RoomNumber))
			return
		}
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// UpdateRoom (PATCH/PUT /api/rooms/:id) changes descriptive fields only;
// lifecycle fields are rejected by the patch normalizer.
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := rc.requireDormAdmin(c, room.DormID); !ok {
		return
	}

	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	updated, err := rc.Rooms.Update(roomID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

type availabilityRequest struct {
	// pointer so a missing flag is distinguishable from false
	Available *bool `json:"available"`
}

// SetAvailability (PATCH /api/rooms/:id/availability)
func (rc *RoomController) SetAvailability(c *gin.Context) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := rc.requireDormAdmin(c, room.DormID); !ok {
		return
	}

	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Available == nil {
		utils.JSONError(c, http.StatusBadRequest, "available must be a boolean")
		return
	}

	updated, err := rc.Rooms.SetAvailability(roomID, *req.Available)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

type reserveRequest struct {
	UserID     uint   `json:"userId" binding:"required"`
	MoveInDate string `json:"moveInDate" binding:"required"`
}

// Reserve (POST /api/rooms/:id/reserve) is the staff-driven reservation
// path; the booking flow goes through the coordinator instead.
func (rc *RoomController) Reserve(c *gin.Context) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := rc.requireDormAdmin(c, room.DormID); !ok {
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "userId and moveInDate are required")
		return
	}
	moveIn, err := parseDate(req.MoveInDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid moveInDate format")
		return
	}

	updated, err := rc.Rooms.Reserve(roomID, req.UserID, moveIn)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

type residentRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// MoveIn (POST /api/rooms/:id/move-in)
func (rc *RoomController) MoveIn(c *gin.Context) {
	rc.residentTransition(c, func(roomID, userID uint) (models.Room, error) {
		return rc.Rooms.MoveIn(roomID, userID)
	})
}

// MoveOut (POST /api/rooms/:id/move-out)
func (rc *RoomController) MoveOut(c *gin.Context) {
	rc.residentTransition(c, func(roomID, userID uint) (models.Room, error) {
		return rc.Rooms.MoveOut(roomID, userID)
	})
}

func (rc *RoomController) residentTransition(c *gin.Context, apply func(roomID, userID uint) (models.Room, error)) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := rc.requireDormAdmin(c, room.DormID); !ok {
		return
	}

	var req residentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "userId is required")
		return
	}

	updated, err := apply(roomID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

type moveOutDateRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

// SetMoveOutDate (POST /api/rooms/:id/move-out-date)
func (rc *RoomController) SetMoveOutDate(c *gin.Context) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := rc.requireDormAdmin(c, room.DormID); !ok {
		return
	}

	var req moveOutDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "userId and date are required")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date format")
		return
	}

	updated, err := rc.Rooms.SetMoveOutDate(roomID, req.UserID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// DeleteRoom (DELETE /api/rooms/:id)
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	roomID, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := rc.Rooms.GetByID(roomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if _, ok := rc.requireDormAdmin(c, room.DormID); !ok {
		return
	}

	if err := rc.Rooms.Delete(roomID); err != nil {
		respondServiceError(c, err)
		return
	}
	log.Printf("✅ Room %d deleted", roomID)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room deleted"})
}

// UpcomingAvailable (GET /api/rooms/upcoming-available?days=&dormId=)
func (rc *RoomController) UpcomingAvailable(c *gin.Context) {
	days := 14
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid days parameter")
			return
		}
		days = n
	}

	rooms, err := rc.Stats.UpcomingAvailable(uintQuery(c, "dormId"), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
