package services

import (
	"fmt"
	"sync"
	"time"
)

// SMSRateLimiter caps how many alerts one phone number can receive per
// window, so a busy injury day does not burn through the SMS budget.
type SMSRateLimiter struct {
	mu          sync.Mutex
	sent        map[string][]time.Time
	maxMessages int
	window      time.Duration
}

func NewSMSRateLimiter(maxMessages int, window time.Duration) *SMSRateLimiter {
	return &SMSRateLimiter{
		sent:        make(map[string][]time.Time),
		maxMessages: maxMessages,
		window:      window,
	}
}

// Allow records a send for the number, or returns an error when the window
// budget is spent.
func (rl *SMSRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.prune(phoneNumber, now)

	if len(rl.sent[phoneNumber]) >= rl.maxMessages {
		return fmt.Errorf("rate limit exceeded: maximum %d SMS per %v", rl.maxMessages, rl.window)
	}

	rl.sent[phoneNumber] = append(rl.sent[phoneNumber], now)
	return nil
}

func (rl *SMSRateLimiter) prune(phoneNumber string, now time.Time) {
	entries, exists := rl.sent[phoneNumber]
	if !exists {
		return
	}

	cutoff := now.Add(-rl.window)
	kept := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) == 0 {
		delete(rl.sent, phoneNumber)
	} else {
		rl.sent[phoneNumber] = kept
	}
}

// Stats reports the limiter's current tracking state.
func (rl *SMSRateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"tracked_numbers": len(rl.sent),
		"max_messages":    rl.maxMessages,
		"window":          rl.window.String(),
	}
}
