package controllers

import (
	"net/http"

	"dormhub-backend/services"
	"dormhub-backend/utils"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Stats *services.RoomStatsService
	Dorms *services.DormService
	Authz services.Authorizer
}

func NewStatsController(stats *services.RoomStatsService, dorms *services.DormService, authz services.Authorizer) *StatsController {
	return &StatsController{Stats: stats, Dorms: dorms, Authz: authz}
}

func (sc *StatsController) requireDormAdmin(c *gin.Context) (uint, bool) {
	dormID, ok := idParam(c, "id")
	if !ok {
		return 0, false
	}
	if _, err := sc.Dorms.GetByID(dormID); err != nil {
		respondServiceError(c, err)
		return 0, false
	}

	actorID, ok := requireActingUser(c)
	if !ok {
		return 0, false
	}
	allowed, err := sc.Authz.CanManageDorm(actorID, dormID)
	if err != nil {
		respondServiceError(c, err)
		return 0, false
	}
	if !allowed {
		forbid(c)
		return 0, false
	}
	return dormID, true
}

// Occupancy (GET /api/dorms/:id/stats)
func (sc *StatsController) Occupancy(c *gin.Context) {
	dormID, ok := sc.requireDormAdmin(c)
	if !ok {
		return
	}
	stats, err := sc.Stats.Occupancy(dormID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// RoomsByFloor (GET /api/dorms/:id/rooms-by-floor)
func (sc *StatsController) RoomsByFloor(c *gin.Context) {
	dormID, ok := sc.requireDormAdmin(c)
	if !ok {
		return
	}
	groups, err := sc.Stats.RoomsByFloor(dormID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, groups)
}
