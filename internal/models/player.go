package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Player is a roster entry with season-baseline production used to seed
// projections. BaselineStats holds per-game predicted values keyed by stat
// name (PTS, REB, AST, STL, BLK, TOV, FG3M, FTM) before any minutes
// adjustment or injury multiplier.
type Player struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ExternalID      string         `gorm:"uniqueIndex;not null" json:"external_id"` // NBA stats player id
	Name            string         `gorm:"not null" json:"name"`
	TeamID          int            `gorm:"index" json:"team_id"`
	Team            string         `json:"team"` // tricode
	Position        string         `json:"position"`
	BaselineMinutes float64        `json:"baseline_minutes"` // season average MPG
	BaselineStats   datatypes.JSON `json:"baseline_stats"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

// BaselineStatMap decodes the stored baseline stats. A missing or malformed
// column decodes to an empty map, which downstream treats as all-zero.
func (p *Player) BaselineStatMap() map[string]float64 {
	stats := make(map[string]float64)
	if len(p.BaselineStats) == 0 {
		return stats
	}
	if err := json.Unmarshal(p.BaselineStats, &stats); err != nil {
		return make(map[string]float64)
	}
	return stats
}

// SetBaselineStats encodes the stat map into the JSON column.
func (p *Player) SetBaselineStats(stats map[string]float64) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	p.BaselineStats = datatypes.JSON(data)
	return nil
}

// GameLog is one player appearance in one game, used for the recent-activity
// and rotation-size checks that feed minutes normalization.
type GameLog struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	PlayerExternalID string    `gorm:"index:idx_gamelogs_player_date;not null" json:"player_external_id"`
	TeamID           int       `gorm:"index:idx_gamelogs_team_date" json:"team_id"`
	GameID           string    `gorm:"index" json:"game_id"`
	GameDate         time.Time `gorm:"index:idx_gamelogs_player_date;index:idx_gamelogs_team_date" json:"game_date"`
	Minutes          float64   `json:"minutes"`
	Points           float64   `json:"points"`
	Rebounds         float64   `json:"rebounds"`
	Assists          float64   `json:"assists"`
}

func (GameLog) TableName() string {
	return "game_logs"
}
