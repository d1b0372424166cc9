package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/api/dto"
	"github.com/swiftride/dispatch/internal/api/middleware"
	"github.com/swiftride/dispatch/internal/domain/ride"
	"github.com/swiftride/dispatch/internal/geo"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
)

// NearbyRequests handles GET /v1/requests/nearby
func (h *Handlers) NearbyRequests(c *gin.Context) {
	var q dto.NearbyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, apperrors.BadRequest("lat and lng query params are required", err))
		return
	}

	candidates, err := h.Matching.Nearby(c.Request.Context(), middleware.CallerID(c),
		geo.Point{Latitude: *q.Lat, Longitude: *q.Lng}, q.Radius)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": candidates})
}

// AcceptRequest handles POST /v1/requests/:id/accept
func (h *Handlers) AcceptRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.BadRequest("Invalid request id", err))
		return
	}

	newRide, err := h.Matching.Accept(c.Request.Context(), middleware.CallerID(c), requestID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ride accepted", "ride": newRide})
}

// RejectRequest handles POST /v1/requests/:id/reject
func (h *Handlers) RejectRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.BadRequest("Invalid request id", err))
		return
	}

	if err := h.Matching.Reject(c.Request.Context(), middleware.CallerID(c), requestID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ride request rejected"})
}

// UpdateLocation handles PUT /v1/drivers/location
func (h *Handlers) UpdateLocation(c *gin.Context) {
	var in dto.UpdateLocationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperrors.BadRequest("lat and lng are required", err))
		return
	}

	err := h.Trips.UpdateLocation(c.Request.Context(), middleware.CallerID(c),
		geo.Point{Latitude: *in.Lat, Longitude: *in.Lng})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated", "timestamp": time.Now().UTC()})
}

// UpdateRideStatus handles PUT /v1/rides/:id/status
func (h *Handlers) UpdateRideStatus(c *gin.Context) {
	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.BadRequest("Invalid ride id", err))
		return
	}

	var in dto.UpdateRideStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperrors.ErrInvalidRideStatus)
		return
	}

	updated, err := h.Trips.UpdateStatus(c.Request.Context(), middleware.CallerID(c), rideID, ride.Status(in.Status))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ride": updated})
}
