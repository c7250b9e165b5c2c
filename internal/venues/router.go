package venues

import (
	"bookit/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse approved venues
	publicVenues := router.Group("/venues")
	{
		publicVenues.GET("", controller.ListVenues)         // GET /api/v1/venues - Browse venues
		publicVenues.GET("/:venueId", controller.GetVenue)  // GET /api/v1/venues/:venueId - Venue details with seats
	}

	// User routes - booking requires an authenticated user account
	userVenues := router.Group("/venues")
	userVenues.Use(middleware.JWTAuth(), middleware.RequireRoles("USER", "ADMIN"))
	{
		userVenues.POST("/:venueId/book-seats", controller.BookSeats) // POST /api/v1/venues/:venueId/book-seats
	}
}
