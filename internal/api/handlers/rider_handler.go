package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftride/dispatch/internal/api/middleware"
)

// ActivePhase handles GET /v1/riders/active
func (h *Handlers) ActivePhase(c *gin.Context) {
	result, err := h.Phases.Active(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
