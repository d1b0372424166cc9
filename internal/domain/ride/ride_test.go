package ride

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStatus_DriverSettable tests which statuses a driver may set directly
func TestStatus_DriverSettable(t *testing.T) {
	tests := []struct {
		status   Status
		settable bool
	}{
		{StatusStarted, true},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{StatusDriverAssigned, false}, // only the accept protocol assigns
		{Status("requested"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.settable, tt.status.DriverSettable())
		})
	}
}

// TestStatus_Terminal tests terminal state classification
func TestStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusDriverAssigned.IsTerminal())
	assert.False(t, StatusStarted.IsTerminal())
}

// TestStatus_FreesDriver tests that exactly the terminal statuses release
// the driver back to availability
func TestStatus_FreesDriver(t *testing.T) {
	for _, s := range []Status{StatusDriverAssigned, StatusStarted, StatusCompleted, StatusCancelled} {
		assert.Equal(t, s.IsTerminal(), s.FreesDriver(), "status %s", s)
	}
}

// TestStatus_IsValid tests status validation
func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusDriverAssigned, StatusStarted, StatusCompleted, StatusCancelled} {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, Status("matched").IsValid())
	assert.False(t, Status("").IsValid())
}
