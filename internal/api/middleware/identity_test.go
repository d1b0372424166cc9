package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(role string) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)

	var seen uuid.UUID
	r := gin.New()
	r.GET("/probe", Identity(), RequireRole(role), func(c *gin.Context) {
		seen = CallerID(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, &seen
}

// TestIdentity_RejectsMissingCaller tests that requests without gateway
// headers are rejected before any handler runs
func TestIdentity_RejectsMissingCaller(t *testing.T) {
	r, _ := testRouter(RoleRider)

	tests := []struct {
		name       string
		userID     string
		userRole   string
		wantStatus int
	}{
		{"No headers", "", "", http.StatusUnauthorized},
		{"Malformed user id", "not-a-uuid", RoleRider, http.StatusUnauthorized},
		{"Unknown role", uuid.NewString(), "admin", http.StatusUnauthorized},
		{"Missing role", uuid.NewString(), "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.userID != "" {
				req.Header.Set("X-User-ID", tt.userID)
			}
			if tt.userRole != "" {
				req.Header.Set("X-User-Role", tt.userRole)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestRequireRole_RejectsWrongRole tests role enforcement
func TestRequireRole_RejectsWrongRole(t *testing.T) {
	r, _ := testRouter(RoleRider)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	req.Header.Set("X-User-Role", RoleDriver)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestIdentity_PassesCallerThrough tests that the verified caller id is
// available to handlers
func TestIdentity_PassesCallerThrough(t *testing.T) {
	r, seen := testRouter(RoleDriver)

	callerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-ID", callerID.String())
	req.Header.Set("X-User-Role", RoleDriver)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, callerID, *seen)
}
