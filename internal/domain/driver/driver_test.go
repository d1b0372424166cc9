package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	assert.True(t, StatusOffline.IsValid())
	assert.True(t, StatusOnline.IsValid())
	assert.True(t, StatusBusy.IsValid())
	assert.False(t, Status("driving").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestDriver_Available(t *testing.T) {
	tests := []struct {
		status    Status
		available bool
	}{
		{StatusOnline, true},
		{StatusBusy, false},
		{StatusOffline, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := &Driver{Status: tt.status}
			assert.Equal(t, tt.available, d.Available())
		})
	}
}
