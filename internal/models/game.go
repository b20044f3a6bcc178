package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game is one scheduled matchup. Away and home each draw from their own
// 240-minute pool during projection.
type Game struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ExternalID     string    `gorm:"uniqueIndex;not null" json:"external_id"`
	GameDate       time.Time `gorm:"index" json:"game_date"`
	AwayTeamID     int       `json:"away_team_id"`
	HomeTeamID     int       `json:"home_team_id"`
	AwayTricode    string    `json:"away_tricode"`
	HomeTricode    string    `json:"home_tricode"`
	Status         string    `json:"status"`
	LastDataUpdate time.Time `json:"last_data_update"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Game) TableName() string {
	return "games"
}

// Matchup renders the away-at-home label shown in the UI.
func (g *Game) Matchup() string {
	return g.AwayTricode + " @ " + g.HomeTricode
}

// Projection is a persisted normalized statline for one player in one game,
// the output of a completed normalization pass.
type Projection struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	GameID           uint           `gorm:"index:idx_projections_game_player,unique;not null" json:"game_id"`
	PlayerExternalID string         `gorm:"index:idx_projections_game_player,unique;not null" json:"player_external_id"`
	PlayerName       string         `json:"player_name"`
	TeamSide         string         `json:"team_side"` // "away" or "home"
	Minutes          float64        `json:"minutes"`
	Stats            datatypes.JSON `json:"stats"`         // box-score stats after rescale + injury multipliers
	DerivedStats     datatypes.JSON `json:"derived_stats"` // PRA, RA, FPTS
	IsOverridden     bool           `json:"is_overridden"`
	ComputedAt       time.Time      `json:"computed_at"`
}

func (Projection) TableName() string {
	return "projections"
}

// ManualOverride pins a player's minutes for one game. Overridden players are
// exempt from every automatic allocation step.
type ManualOverride struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	GameID           uint      `gorm:"index:idx_overrides_game_player,unique;not null" json:"game_id"`
	PlayerExternalID string    `gorm:"index:idx_overrides_game_player,unique;not null" json:"player_external_id"`
	Minutes          float64   `gorm:"not null" json:"minutes"` // [0,48]
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (ManualOverride) TableName() string {
	return "manual_overrides"
}
