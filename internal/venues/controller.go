package venues

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"
	"bookit/internal/shared/utils/response"
)

type Controller interface {
	ListVenues(c *gin.Context)
	GetVenue(c *gin.Context)
	BookSeats(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListVenues(c *gin.Context) {
	var query ListVenuesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := ctrl.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load venues", nil)
		return
	}

	response.Success(c, http.StatusOK, "Venues retrieved", result)
}

func (ctrl *controller) GetVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("venueId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid venue ID", err.Error())
		return
	}

	venue, err := ctrl.service.GetByID(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, ErrVenueNotFound) {
			response.Error(c, http.StatusNotFound, err.Error(), nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to load venue", nil)
		return
	}

	response.Success(c, http.StatusOK, "Venue retrieved", venue)
}

func (ctrl *controller) BookSeats(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("venueId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid venue ID", err.Error())
		return
	}

	idValue, exists := c.Get("user_id")
	if !exists {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	userID, err := uuid.Parse(idValue.(string))
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}
	userEmail := ""
	if emailValue, ok := c.Get("user_email"); ok {
		userEmail, _ = emailValue.(string)
	}

	var req BookSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := ctrl.service.BookSeats(c.Request.Context(), venueID, userID, userEmail, req)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Seats booked", result)
}

func respondBookingError(c *gin.Context, err error) {
	var conflict *seats.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.Error(c, http.StatusConflict, "Seat booking conflict", conflict.Failures)
	case errors.Is(err, ErrVenueNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, hostrequests.ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, seats.ErrInvalidTime),
		errors.Is(err, seats.ErrInvalidDate),
		errors.Is(err, seats.ErrInvalidHours):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
