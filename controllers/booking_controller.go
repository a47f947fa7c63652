package controllers

import (
	"net/http"
	"strings"

	"dormhub-backend/models"
	"dormhub-backend/services"
	"dormhub-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	Bookings *services.BookingService
	Authz    services.Authorizer
}

func NewBookingController(bookings *services.BookingService, authz services.Authorizer) *BookingController {
	return &BookingController{Bookings: bookings, Authz: authz}
}

type createBookingRequest struct {
	DormID         uint                `json:"dormId" binding:"required"`
	RoomID         uint                `json:"roomId" binding:"required"`
	MoveInDate     string              `json:"moveInDate" binding:"required"`
	StayDuration   int                 `json:"stayDuration" binding:"required"`
	DurationType   models.DurationType `json:"durationType" binding:"required"`
	PaymentMethod  string              `json:"paymentMethod"`
	PaymentSlipURL string              `json:"paymentSlipUrl"`
	BookingFeePaid bool                `json:"bookingFeePaid"`
	TotalAmount    float64             `json:"totalAmount"`
}

type bookingResponse struct {
	Booking models.Booking `json:"booking"`
	Warning string         `json:"warning,omitempty"`
}

// CreateBooking (POST /api/bookings). The booking is created for the
// acting user; a failed reservation is reported as a warning, never as
// a request failure.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	actorID, ok := requireActingUser(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	moveIn, err := parseDate(req.MoveInDate)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid moveInDate format")
		return
	}

	result, err := bc.Bookings.Create(services.CreateBookingInput{
		UserID:         actorID,
		DormID:         req.DormID,
		RoomID:         req.RoomID,
		MoveInDate:     moveIn,
		StayDuration:   req.StayDuration,
		DurationType:   req.DurationType,
		PaymentMethod:  req.PaymentMethod,
		PaymentSlipURL: req.PaymentSlipURL,
		BookingFeePaid: req.BookingFeePaid,
		TotalAmount:    req.TotalAmount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := bookingResponse{Booking: result.Booking}
	if result.ReservationErr != nil {
		resp.Warning = "room reservation failed: " + result.ReservationErr.Error()
	}
	utils.JSONSuccess(c, http.StatusCreated, resp)
}

// GetBookings (GET /api/bookings?dormId=&status=). Non-admin callers
// only ever see their own bookings.
func (bc *BookingController) GetBookings(c *gin.Context) {
	actorID, ok := requireActingUser(c)
	if !ok {
		return
	}

	filter := services.BookingFilter{
		DormID: uintQuery(c, "dormId"),
		Status: models.BookingStatus(strings.TrimSpace(c.Query("status"))),
	}

	if filter.DormID != 0 {
		allowed, err := bc.Authz.CanManageDorm(actorID, filter.DormID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !allowed {
			filter.UserID = actorID
		}
	} else {
		filter.UserID = actorID
	}

	list, err := bc.Bookings.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

// GetBooking (GET /api/bookings/:id)
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, ok := bc.authorizedBooking(c)
	if !ok {
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ConfirmBooking (POST /api/bookings/:id/confirm)
func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	booking, ok := bc.authorizedBooking(c)
	if !ok {
		return
	}
	updated, err := bc.Bookings.Confirm(booking.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// CancelBooking (POST /api/bookings/:id/cancel)
func (bc *BookingController) CancelBooking(c *gin.Context) {
	booking, ok := bc.authorizedBooking(c)
	if !ok {
		return
	}
	updated, err := bc.Bookings.Cancel(booking.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, updated)
}

// RetryReservation (POST /api/bookings/:id/retry-reservation) is the
// admin repair for a Pending booking whose room reservation failed.
func (bc *BookingController) RetryReservation(c *gin.Context) {
	booking, ok := bc.authorizedBooking(c)
	if !ok {
		return
	}

	result, err := bc.Bookings.RetryReservation(booking.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if result.ReservationErr != nil {
		respondServiceError(c, result.ReservationErr)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result.Booking)
}

// authorizedBooking loads the booking from the :id param and checks the
// acting user may act on it; responds itself on failure.
func (bc *BookingController) authorizedBooking(c *gin.Context) (models.Booking, bool) {
	actorID, ok := requireActingUser(c)
	if !ok {
		return models.Booking{}, false
	}
	bookingID, ok := idParam(c, "id")
	if !ok {
		return models.Booking{}, false
	}

	booking, err := bc.Bookings.GetByID(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return models.Booking{}, false
	}

	allowed, err := bc.Authz.CanActOnBooking(actorID, booking)
	if err != nil {
		respondServiceError(c, err)
		return models.Booking{}, false
	}
	if !allowed {
		forbid(c)
		return models.Booking{}, false
	}
	return booking, true
}
