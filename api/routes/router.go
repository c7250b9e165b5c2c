// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"bookit/internal/auth"
	"bookit/internal/hostrequests"
	"bookit/internal/notifications"
	"bookit/internal/shared/config"
	"bookit/internal/shared/database"
	"bookit/internal/venues"
	"bookit/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config       *config.Config
	db           *database.DB
	notification notifications.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetNotificationService injects the outbound notification pipeline.
func (r *Router) SetNotificationService(n notifications.Service) {
	r.notification = n
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "bookit-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "bookit-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupBookingRoutes wires host requests, venues and the seat booking flow.
// The two services reference each other through interfaces, so construction
// order matters: both are built before the cross-links are set.
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	hostRepo := hostrequests.NewRepository(r.db.GetPostgreSQL())
	hostService := hostrequests.NewService(hostRepo)

	cacheService := cache.NewService(r.db.GetRedisClient())

	venueRepo := venues.NewRepository(r.db.GetPostgreSQL())
	venueService := venues.NewService(venueRepo, hostRepo, cacheService)

	// The venues service doubles as the host side's projection gateway.
	hostService.SetVenueSync(venueService)

	if r.notification != nil {
		hostService.SetNotifier(r.notification)
		venueService.SetNotifier(r.notification)
	}

	hostController := hostrequests.NewController(hostService)
	hostrequests.SetupHostRequestRoutes(rg, hostController)

	venueController := venues.NewController(venueService)
	venues.SetupVenueRoutes(rg, venueController)
}
