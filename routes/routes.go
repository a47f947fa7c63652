package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"dormhub-backend/controllers"
	"dormhub-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controller instances onto the route tree.
func SetupRouter(
	rc *controllers.RoomController,
	bc *controllers.BookingController,
	sc *controllers.StatsController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Acting-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)

			// must stay above /:id
			rooms.GET("/upcoming-available", rc.UpcomingAvailable)

			rooms.GET("/:id", rc.GetRoom)
			rooms.POST("", rc.CreateRoom)
			rooms.PATCH("/:id", rc.UpdateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.DELETE("/:id", rc.DeleteRoom)

			rooms.PATCH("/:id/availability", rc.SetAvailability)
			rooms.POST("/:id/reserve", rc.Reserve)
			rooms.POST("/:id/move-in", rc.MoveIn)
			rooms.POST("/:id/move-out-date", rc.SetMoveOutDate)
			rooms.POST("/:id/move-out", rc.MoveOut)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)
			bookings.GET("/:id", bc.GetBooking)
			bookings.POST("/:id/confirm", bc.ConfirmBooking)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.POST("/:id/retry-reservation", bc.RetryReservation)
		}

		dorms := api.Group("/dorms")
		{
			dorms.GET("/:id/stats", sc.Occupancy)
			dorms.GET("/:id/rooms-by-floor", sc.RoomsByFloor)
		}
	}

	return r
}
