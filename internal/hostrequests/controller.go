package hostrequests

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookit/internal/seats"
	"bookit/internal/shared/utils/response"
)

type Controller interface {
	// Owner endpoints
	CreateHostRequest(c *gin.Context)
	GetMyHostRequests(c *gin.Context)
	GetMyHostRequest(c *gin.Context)
	UpdateHostRequest(c *gin.Context)
	DeleteHostRequest(c *gin.Context)
	AddOwnerBooking(c *gin.Context)
	RemoveOwnerBooking(c *gin.Context)

	// Admin endpoints
	ListHostRequests(c *gin.Context)
	GetHostRequest(c *gin.Context)
	UpdateHostRequestStatus(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateHostRequest(c *gin.Context) {
	var req CreateHostRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	ownerID, ownerEmail, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	hr, err := ctrl.service.Create(c.Request.Context(), ownerID, ownerEmail, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Host request submitted", hr)
}

func (ctrl *controller) GetMyHostRequests(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	requests, err := ctrl.service.GetMine(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host requests retrieved", requests)
}

func (ctrl *controller) GetMyHostRequest(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	hr, err := ctrl.service.GetMineByID(c.Request.Context(), ownerID, requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host request retrieved", hr)
}

func (ctrl *controller) UpdateHostRequest(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	var req UpdateHostRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	hr, err := ctrl.service.Update(c.Request.Context(), ownerID, requestID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host request updated", hr)
}

func (ctrl *controller) DeleteHostRequest(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), ownerID, requestID); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host request deleted", nil)
}

func (ctrl *controller) AddOwnerBooking(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	seatID, err := strconv.Atoi(c.Param("seatId"))
	if err != nil || seatID < 1 {
		response.Error(c, http.StatusBadRequest, "Invalid seat ID", nil)
		return
	}

	var req OwnerBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	hr, err := ctrl.service.AddOwnerBooking(c.Request.Context(), ownerID, requestID, seatID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Booking added", hr)
}

func (ctrl *controller) RemoveOwnerBooking(c *gin.Context) {
	ownerID, _, ok := currentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Not authenticated", nil)
		return
	}

	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	seatID, err := strconv.Atoi(c.Param("seatId"))
	if err != nil || seatID < 1 {
		response.Error(c, http.StatusBadRequest, "Invalid seat ID", nil)
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking ID", err.Error())
		return
	}

	if err := ctrl.service.RemoveOwnerBooking(c.Request.Context(), ownerID, requestID, seatID, bookingID); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Booking removed", nil)
}

func (ctrl *controller) ListHostRequests(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if query.Status != "" && !IsValidStatus(query.Status) {
		response.Error(c, http.StatusBadRequest, "Invalid status filter", nil)
		return
	}

	requests, err := ctrl.service.GetAll(c.Request.Context(), query.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host requests retrieved", requests)
}

func (ctrl *controller) GetHostRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	hr, err := ctrl.service.GetByID(c.Request.Context(), requestID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host request retrieved", hr)
}

func (ctrl *controller) UpdateHostRequestStatus(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("requestId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request ID", err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	hr, err := ctrl.service.UpdateStatus(c.Request.Context(), requestID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Host request status updated", hr)
}

// currentUser reads the identity the JWT middleware stored on the context.
func currentUser(c *gin.Context) (uuid.UUID, string, bool) {
	idValue, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(idValue.(string))
	if err != nil {
		return uuid.Nil, "", false
	}

	email := ""
	if emailValue, ok := c.Get("user_email"); ok {
		email, _ = emailValue.(string)
	}
	return id, email, true
}

func respondServiceError(c *gin.Context, err error) {
	var conflict *seats.ConflictError
	switch {
	case errors.As(err, &conflict):
		response.Error(c, http.StatusConflict, "Seat booking conflict", conflict.Failures)
	case errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrSeatNotFound),
		errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrUserBookingProtected):
		response.Error(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, ErrConcurrentUpdate):
		response.Error(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, seats.ErrInvalidTime),
		errors.Is(err, seats.ErrInvalidDate),
		errors.Is(err, seats.ErrInvalidHours):
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
