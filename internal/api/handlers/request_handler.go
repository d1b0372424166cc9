package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swiftride/dispatch/internal/api/dto"
	"github.com/swiftride/dispatch/internal/api/middleware"
	"github.com/swiftride/dispatch/internal/geo"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
)

// CreateRequest handles POST /v1/requests
func (h *Handlers) CreateRequest(c *gin.Context) {
	var in dto.CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.fail(c, apperrors.BadRequest("pickup and dropoff location and address are required", err))
		return
	}

	req, err := h.Requests.Create(c.Request.Context(), middleware.CallerID(c),
		geo.Point{Latitude: *in.PickupLat, Longitude: *in.PickupLng},
		geo.Point{Latitude: *in.DropoffLat, Longitude: *in.DropoffLng},
		in.PickupAddr, in.DropoffAddr,
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": req})
}

// FareEstimate handles GET /v1/requests/estimate
func (h *Handlers) FareEstimate(c *gin.Context) {
	var q dto.EstimateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, apperrors.BadRequest("pickup and dropoff lat/lng are required", err))
		return
	}

	est, err := h.Requests.Estimate(
		geo.Point{Latitude: *q.PickupLat, Longitude: *q.PickupLng},
		geo.Point{Latitude: *q.DropoffLat, Longitude: *q.DropoffLng},
	)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, est)
}

// CancelRequest handles POST /v1/requests/:id/cancel
func (h *Handlers) CancelRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, apperrors.BadRequest("Invalid request id", err))
		return
	}

	req, err := h.Requests.Cancel(c.Request.Context(), middleware.CallerID(c), requestID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ride request cancelled", "request": req})
}
