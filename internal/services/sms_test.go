package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"+15551234567", "+15551234567", false},
		{"5551234567", "+15551234567", false},
		{"(555) 123-4567", "+15551234567", false},
		{"+447911123456", "+447911123456", false},
		{"123", "", true},
		{"", "", true},
		{"+0123456789", "", true},
	}
	for _, tt := range tests {
		got, err := normalizePhoneNumber(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
		} else {
			assert.NoError(t, err, "input %q", tt.input)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestSMSRateLimiterEnforcesWindowBudget(t *testing.T) {
	rl := NewSMSRateLimiter(2, time.Hour)

	assert.NoError(t, rl.Allow("+15551234567"))
	assert.NoError(t, rl.Allow("+15551234567"))
	assert.Error(t, rl.Allow("+15551234567"))

	// Other numbers have their own budget.
	assert.NoError(t, rl.Allow("+15559876543"))
}

func TestSMSRateLimiterStats(t *testing.T) {
	rl := NewSMSRateLimiter(5, time.Hour)
	_ = rl.Allow("+15551234567")

	stats := rl.Stats()
	assert.Equal(t, 1, stats["tracked_numbers"])
	assert.Equal(t, 5, stats["max_messages"])
}
