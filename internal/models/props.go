package models

import "time"

// PropLine is a sportsbook prop for one player stat in one game.
type PropLine struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	GameID           uint      `gorm:"index:idx_props_game_player_stat,unique" json:"game_id"`
	PlayerExternalID string    `gorm:"index:idx_props_game_player_stat,unique" json:"player_external_id"`
	Stat             string    `gorm:"index:idx_props_game_player_stat,unique" json:"stat"` // PTS, REB, AST, PRA, ...
	Line             float64   `json:"line"`
	OverOdds         int       `json:"over_odds"`  // american odds
	UnderOdds        int       `json:"under_odds"` // american odds
	Book             string    `json:"book"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PropLine) TableName() string {
	return "prop_lines"
}

// AlertSubscription routes SMS alerts when a tracked player's injury status
// changes to OUT or DOUBTFUL.
type AlertSubscription struct {
	ID               string    `gorm:"primaryKey" json:"id"` // uuid
	PhoneNumber      string    `gorm:"index;not null" json:"phone_number"`
	PlayerExternalID string    `gorm:"index;not null" json:"player_external_id"`
	Active           bool      `gorm:"default:true" json:"active"`
	LastNotifiedAt   time.Time `json:"last_notified_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (AlertSubscription) TableName() string {
	return "alert_subscriptions"
}
