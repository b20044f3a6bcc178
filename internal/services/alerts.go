package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

// notifyCooldown suppresses repeat alerts for the same subscription while a
// player's status flaps between report refreshes.
const notifyCooldown = 6 * time.Hour

// AlertService manages SMS subscriptions and fires alerts when a tracked
// player is ruled out.
type AlertService struct {
	db     *database.DB
	sender SMSSender
	logger *logrus.Logger
}

func NewAlertService(db *database.DB, sender SMSSender, logger *logrus.Logger) *AlertService {
	return &AlertService{
		db:     db,
		sender: sender,
		logger: logger,
	}
}

// Subscribe registers a phone number for a player's status alerts. An
// existing subscription for the same pair is reactivated instead of
// duplicated.
func (s *AlertService) Subscribe(ctx context.Context, phoneNumber, playerExternalID string) (*models.AlertSubscription, error) {
	normalized, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("invalid phone number format: %w", err)
	}

	var sub models.AlertSubscription
	err = s.db.WithContext(ctx).
		Where("phone_number = ? AND player_external_id = ?", normalized, playerExternalID).
		First(&sub).Error
	if err == nil {
		if !sub.Active {
			sub.Active = true
			if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
				return nil, err
			}
		}
		return &sub, nil
	}

	sub = models.AlertSubscription{
		ID:               uuid.New().String(),
		PhoneNumber:      normalized,
		PlayerExternalID: playerExternalID,
		Active:           true,
	}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"player_id":       playerExternalID,
	}).Info("Alert subscription created")
	return &sub, nil
}

// Unsubscribe deactivates a subscription by id.
func (s *AlertService) Unsubscribe(ctx context.Context, subscriptionID string) error {
	result := s.db.WithContext(ctx).Model(&models.AlertSubscription{}).
		Where("id = ?", subscriptionID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription not found")
	}
	return nil
}

// ListSubscriptions returns the active subscriptions for a phone number.
func (s *AlertService) ListSubscriptions(ctx context.Context, phoneNumber string) ([]models.AlertSubscription, error) {
	normalized, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("invalid phone number format: %w", err)
	}

	var subs []models.AlertSubscription
	err = s.db.WithContext(ctx).
		Where("phone_number = ? AND active = ?", normalized, true).
		Find(&subs).Error
	return subs, err
}

// NotifyStatusChanges fires SMS alerts for injury rows that rule a tracked
// player out. Callers pass only rows whose status actually changed in the
// latest ingest.
func (s *AlertService) NotifyStatusChanges(ctx context.Context, changed []models.InjuryRecord) {
	for i := range changed {
		record := &changed[i]
		if !record.RulesOut() {
			continue
		}

		var subs []models.AlertSubscription
		err := s.db.WithContext(ctx).
			Where("player_external_id = ? AND active = ?", record.PlayerExternalID, true).
			Find(&subs).Error
		if err != nil {
			s.logger.WithError(err).Error("Failed to load alert subscriptions")
			continue
		}

		message := fmt.Sprintf("%s (%s) is now %s", record.PlayerName, record.Team, record.Status)
		if record.Reason != "" {
			message += " - " + record.Reason
		}

		for _, sub := range subs {
			if time.Since(sub.LastNotifiedAt) < notifyCooldown {
				continue
			}
			if err := s.sender.SendMessage(sub.PhoneNumber, message); err != nil {
				s.logger.WithError(err).WithField("subscription_id", sub.ID).Warn("Failed to send alert")
				continue
			}
			err := s.db.WithContext(ctx).Model(&models.AlertSubscription{}).
				Where("id = ?", sub.ID).
				Update("last_notified_at", time.Now().UTC()).Error
			if err != nil {
				s.logger.WithError(err).Warn("Failed to record alert delivery")
			}
		}
	}
}
