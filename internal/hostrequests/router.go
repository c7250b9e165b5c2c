package hostrequests

import (
	"bookit/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupHostRequestRoutes(router *gin.RouterGroup, controller Controller) {
	// Owner routes - venue owners manage their own drafts
	ownerRequests := router.Group("/host/requests")
	ownerRequests.Use(middleware.JWTAuth(), middleware.RequireOwner())
	{
		ownerRequests.POST("", controller.CreateHostRequest)                 // POST /api/v1/host/requests - Submit a venue for approval
		ownerRequests.GET("", controller.GetMyHostRequests)                  // GET /api/v1/host/requests - List own requests
		ownerRequests.GET("/:requestId", controller.GetMyHostRequest)        // GET /api/v1/host/requests/:requestId - Request details
		ownerRequests.PUT("/:requestId", controller.UpdateHostRequest)       // PUT /api/v1/host/requests/:requestId - Edit details and seats
		ownerRequests.DELETE("/:requestId", controller.DeleteHostRequest)    // DELETE /api/v1/host/requests/:requestId - Withdraw request

		// Owner-side seat holds
		ownerRequests.POST("/:requestId/seats/:seatId/bookings", controller.AddOwnerBooking)                // POST - Block out a seat slot
		ownerRequests.DELETE("/:requestId/seats/:seatId/bookings/:bookingId", controller.RemoveOwnerBooking) // DELETE - Release an owner hold
	}

	// Admin routes - moderation queue
	adminRequests := router.Group("/admin/host-requests")
	adminRequests.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminRequests.GET("", controller.ListHostRequests)                    // GET /api/v1/admin/host-requests?status= - Moderation queue
		adminRequests.GET("/:requestId", controller.GetHostRequest)           // GET /api/v1/admin/host-requests/:requestId - Inspect a request
		adminRequests.PUT("/:requestId/status", controller.UpdateHostRequestStatus) // PUT - Approve or reject
	}
}
