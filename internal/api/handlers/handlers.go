package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/swiftride/dispatch/internal/service/matching"
	"github.com/swiftride/dispatch/internal/service/phase"
	"github.com/swiftride/dispatch/internal/service/request"
	"github.com/swiftride/dispatch/internal/service/trip"
	apperrors "github.com/swiftride/dispatch/pkg/errors"
	"github.com/swiftride/dispatch/pkg/logger"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Requests *request.Service
	Matching *matching.Service
	Trips    *trip.Service
	Phases   *phase.Service
	Logger   *logger.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(requests *request.Service, matchingSvc *matching.Service, trips *trip.Service, phases *phase.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		Requests: requests,
		Matching: matchingSvc,
		Trips:    trips,
		Phases:   phases,
		Logger:   log,
	}
}

// fail writes the AppError mapping of err and logs unexpected failures
func (h *Handlers) fail(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed", logger.String("path", c.FullPath()), logger.Err(err))
	}
	c.JSON(appErr.Status, gin.H{"code": appErr.Code, "message": appErr.Message})
}
