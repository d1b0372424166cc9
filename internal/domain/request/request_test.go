package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestStatus_IsValid tests status validation
func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusOpen, StatusMatched, StatusExpired, StatusCancelled} {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, Status("pending").IsValid())
	assert.False(t, Status("").IsValid())
}

// TestStatus_IsTerminal tests that only open admits further transitions
func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusOpen.IsTerminal())
	assert.True(t, StatusMatched.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
}

// TestRequest_Expired tests the deadline check
func TestRequest_Expired(t *testing.T) {
	now := time.Now().UTC()
	req := RideRequest{ExpiresAt: now}

	assert.False(t, req.Expired(now), "deadline itself is not yet expired")
	assert.False(t, req.Expired(now.Add(-time.Second)))
	assert.True(t, req.Expired(now.Add(time.Second)))
}

// TestTTL tests the request lifetime constant
func TestTTL(t *testing.T) {
	assert.Equal(t, 5*time.Minute, TTL)
}
