package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dormhub-backend/services"
	"dormhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// actingUserID reads the caller identity that the external auth layer
// injects per request. There is no ambient "current user" anywhere
// below the controllers; the ID is passed down explicitly.
func actingUserID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-Acting-User-ID"))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func requireActingUser(c *gin.Context) (uint, bool) {
	id, ok := actingUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing or invalid X-Acting-User-ID header")
		return 0, false
	}
	return id, true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

func uintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// parseDate accepts "2006-01-02" or full RFC3339.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// respondServiceError maps service errors onto HTTP statuses. Every
// lifecycle failure names its violated precondition in the body; only
// genuinely unexpected errors become a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrDormNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRoomNotAvailable),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrResidentMismatch),
		errors.Is(err, services.ErrRoomOccupied),
		errors.Is(err, services.ErrRoomHasActiveBooking),
		errors.Is(err, services.ErrBookingCancelled):
		utils.JSONError(c, http.StatusConflict, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

func forbid(c *gin.Context) {
	utils.JSONError(c, http.StatusForbidden, "not allowed")
}
