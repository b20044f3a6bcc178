package models

import "time"

// Injury report statuses as published by the league report.
const (
	InjuryStatusOut          = "OUT"
	InjuryStatusDoubtful     = "DOUBTFUL"
	InjuryStatusQuestionable = "QUESTIONABLE"
	InjuryStatusProbable     = "PROBABLE"
	InjuryStatusAvailable    = "AVAILABLE"
)

// InjuryRecord is one row from the structured injury feed for a given date.
type InjuryRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ReportDate       time.Time `gorm:"index:idx_injuries_date_player" json:"report_date"`
	PlayerExternalID string    `gorm:"index:idx_injuries_date_player" json:"player_external_id"`
	PlayerName       string    `json:"player_name"`
	Team             string    `gorm:"index" json:"team"`
	TeamID           int       `json:"team_id"`
	Status           string    `gorm:"not null" json:"status"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (InjuryRecord) TableName() string {
	return "injury_records"
}

// RulesOut reports whether this record removes the player from projection.
func (r *InjuryRecord) RulesOut() bool {
	return r.Status == InjuryStatusOut || r.Status == InjuryStatusDoubtful
}
