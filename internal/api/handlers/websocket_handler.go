package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/swiftride/dispatch/internal/api/dto"
	"github.com/swiftride/dispatch/internal/api/middleware"
	"github.com/swiftride/dispatch/internal/geo"
	"github.com/swiftride/dispatch/pkg/logger"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks happen at the gateway
		return true
	},
}

// StreamLocation handles GET /v1/drivers/location/stream. A driver keeps the
// socket open and streams position frames; each frame goes through the same
// update path as the REST endpoint. Ingest only: nothing is pushed back
// beyond per-frame acks.
func (h *Handlers) StreamLocation(c *gin.Context) {
	driverID := middleware.CallerID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade to WebSocket", logger.Err(err))
		return
	}
	defer conn.Close()

	h.Logger.Info("Driver location stream opened", logger.String("driver_id", driverID.String()))

	for {
		var msg dto.LocationMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseGoingAway, gorilla.CloseNormalClosure) {
				h.Logger.Warn("Driver location stream error", logger.String("driver_id", driverID.String()), logger.Err(err))
			}
			return
		}

		err := h.Trips.UpdateLocation(c.Request.Context(), driverID,
			geo.Point{Latitude: msg.Lat, Longitude: msg.Lng})
		if err != nil {
			_ = conn.WriteJSON(gin.H{"error": err.Error()})
			continue
		}

		if err := conn.WriteJSON(gin.H{"ack": true}); err != nil {
			return
		}
	}
}
