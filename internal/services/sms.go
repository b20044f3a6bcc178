package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers one message to one phone number.
type SMSSender interface {
	SendMessage(phoneNumber, message string) error
}

// TwilioSMSSender sends alerts through the Twilio API, behind a circuit
// breaker and a per-number rate limiter.
type TwilioSMSSender struct {
	client      *twilio.RestClient
	fromNumber  string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *SMSRateLimiter
	logger      *logrus.Logger
}

func NewTwilioSMSSender(accountSID, authToken, fromNumber string, rateLimiter *SMSRateLimiter, logger *logrus.Logger) *TwilioSMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "twilio-sms",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &TwilioSMSSender{
		client:      client,
		fromNumber:  fromNumber,
		breaker:     breaker,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// SendMessage sends an SMS via Twilio.
func (s *TwilioSMSSender) SendMessage(phoneNumber, message string) error {
	normalized, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalized); err != nil {
			s.logger.WithField("phone", normalized).Warn("SMS rate limited")
			return err
		}
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(normalized)
		params.SetFrom(s.fromNumber)
		params.SetBody(message)

		resp, err := s.client.Api.CreateMessage(params)
		if err != nil {
			return nil, err
		}
		if resp.Sid != nil {
			s.logger.WithField("sid", *resp.Sid).Debug("SMS sent")
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// MockSMSSender logs instead of sending, for development and tests.
type MockSMSSender struct {
	logger *logrus.Logger
}

func NewMockSMSSender(logger *logrus.Logger) *MockSMSSender {
	return &MockSMSSender{logger: logger}
}

func (s *MockSMSSender) SendMessage(phoneNumber, message string) error {
	s.logger.WithFields(logrus.Fields{
		"phone":   phoneNumber,
		"message": message,
	}).Info("Mock SMS sent")
	return nil
}

var (
	nonDigitRe   = regexp.MustCompile(`[^\d+]`)
	usNumberRe   = regexp.MustCompile(`^\d{10}$`)
	e164NumberRe = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// normalizePhoneNumber coerces input into E.164, assuming US for bare
// 10-digit numbers.
func normalizePhoneNumber(phone string) (string, error) {
	cleaned := nonDigitRe.ReplaceAllString(phone, "")

	if len(cleaned) == 0 || cleaned[0] != '+' {
		if usNumberRe.MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	if !e164NumberRe.MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}
	return cleaned, nil
}
