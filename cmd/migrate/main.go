package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtsight/nba-dashboard/internal/models"
	"github.com/courtsight/nba-dashboard/pkg/config"
	"github.com/courtsight/nba-dashboard/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db, cfg); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB, cfg *config.Config) error {
	// Enable UUID extension for PostgreSQL
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
			return fmt.Errorf("failed to create UUID extension: %w", err)
		}
	}

	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.Player{},
		&models.GameLog{},
		&models.Game{},
		&models.Projection{},
		&models.ManualOverride{},
		&models.InjuryRecord{},
		&models.PropLine{},
		&models.AlertSubscription{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"alert_subscriptions",
		"prop_lines",
		"injury_records",
		"manual_overrides",
		"projections",
		"games",
		"game_logs",
		"players",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	gameDate := time.Now().UTC().Truncate(24 * time.Hour).Add(19 * time.Hour)

	game := &models.Game{
		ExternalID:     "0022500101",
		GameDate:       gameDate,
		AwayTeamID:     1610612738,
		HomeTeamID:     1610612747,
		AwayTricode:    "BOS",
		HomeTricode:    "LAL",
		Status:         "scheduled",
		LastDataUpdate: time.Now().UTC(),
	}
	if err := db.Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	type seedPlayer struct {
		id       string
		name     string
		teamID   int
		team     string
		position string
		minutes  float64
		stats    map[string]float64
	}

	seedPlayers := []seedPlayer{
		// Boston
		{"1628369", "Jayson Tatum", 1610612738, "BOS", "SF", 36.5, map[string]float64{"PTS": 28.1, "REB": 8.5, "AST": 5.2, "STL": 1.0, "BLK": 0.6, "TOV": 2.8, "FG3M": 3.4, "FTM": 5.0}},
		{"1627759", "Jaylen Brown", 1610612738, "BOS", "SG", 34.0, map[string]float64{"PTS": 24.5, "REB": 5.8, "AST": 3.6, "STL": 1.1, "BLK": 0.4, "TOV": 2.4, "FG3M": 2.4, "FTM": 3.4}},
		{"1628401", "Derrick White", 1610612738, "BOS", "PG", 32.5, map[string]float64{"PTS": 16.2, "REB": 4.1, "AST": 5.0, "STL": 0.9, "BLK": 1.1, "TOV": 1.6, "FG3M": 2.8, "FTM": 2.0}},
		{"201950", "Jrue Holiday", 1610612738, "BOS", "PG", 30.0, map[string]float64{"PTS": 12.0, "REB": 5.3, "AST": 4.8, "STL": 0.9, "BLK": 0.7, "TOV": 1.8, "FG3M": 1.6, "FTM": 1.2}},
		{"1628400", "Kristaps Porzingis", 1610612738, "BOS", "C", 28.5, map[string]float64{"PTS": 19.8, "REB": 6.9, "AST": 1.9, "STL": 0.7, "BLK": 1.8, "TOV": 1.6, "FG3M": 1.9, "FTM": 3.8}},
		{"1629057", "Al Horford", 1610612738, "BOS", "C", 26.0, map[string]float64{"PTS": 8.8, "REB": 6.2, "AST": 2.5, "STL": 0.6, "BLK": 0.9, "TOV": 0.9, "FG3M": 1.6, "FTM": 0.4}},
		{"1630573", "Payton Pritchard", 1610612738, "BOS", "PG", 22.0, map[string]float64{"PTS": 9.5, "REB": 3.1, "AST": 3.3, "STL": 0.5, "BLK": 0.1, "TOV": 0.9, "FG3M": 1.9, "FTM": 0.6}},
		{"1630202", "Sam Hauser", 1610612738, "BOS", "SF", 17.0, map[string]float64{"PTS": 7.8, "REB": 2.9, "AST": 0.9, "STL": 0.4, "BLK": 0.2, "TOV": 0.4, "FG3M": 2.1, "FTM": 0.3}},
		{"1641094", "Luke Kornet", 1610612738, "BOS", "C", 14.5, map[string]float64{"PTS": 4.9, "REB": 3.9, "AST": 1.0, "STL": 0.3, "BLK": 0.9, "TOV": 0.5, "FG3M": 0.0, "FTM": 0.8}},
		{"1630568", "Jordan Walsh", 1610612738, "BOS", "SF", 8.0, map[string]float64{"PTS": 2.4, "REB": 1.4, "AST": 0.4, "STL": 0.2, "BLK": 0.1, "TOV": 0.3, "FG3M": 0.4, "FTM": 0.2}},
		// Los Angeles
		{"2544", "LeBron James", 1610612747, "LAL", "SF", 35.0, map[string]float64{"PTS": 25.4, "REB": 7.5, "AST": 8.1, "STL": 1.2, "BLK": 0.5, "TOV": 3.4, "FG3M": 2.1, "FTM": 4.2}},
		{"203076", "Anthony Davis", 1610612747, "LAL", "C", 35.5, map[string]float64{"PTS": 24.7, "REB": 12.3, "AST": 3.5, "STL": 1.2, "BLK": 2.3, "TOV": 2.1, "FG3M": 0.4, "FTM": 5.4}},
		{"1630559", "Austin Reaves", 1610612747, "LAL", "SG", 32.0, map[string]float64{"PTS": 15.9, "REB": 4.3, "AST": 5.5, "STL": 0.8, "BLK": 0.3, "TOV": 2.1, "FG3M": 1.9, "FTM": 3.0}},
		{"1627742", "D'Angelo Russell", 1610612747, "LAL", "PG", 30.5, map[string]float64{"PTS": 18.0, "REB": 3.1, "AST": 6.3, "STL": 0.9, "BLK": 0.5, "TOV": 2.3, "FG3M": 2.9, "FTM": 1.7}},
		{"1628398", "Rui Hachimura", 1610612747, "LAL", "PF", 27.0, map[string]float64{"PTS": 13.6, "REB": 4.3, "AST": 1.2, "STL": 0.5, "BLK": 0.4, "TOV": 0.9, "FG3M": 1.4, "FTM": 1.4}},
		{"1630209", "Jarred Vanderbilt", 1610612747, "LAL", "PF", 22.5, map[string]float64{"PTS": 5.2, "REB": 4.8, "AST": 1.2, "STL": 1.2, "BLK": 0.4, "TOV": 0.7, "FG3M": 0.3, "FTM": 0.7}},
		{"203954", "Gabe Vincent", 1610612747, "LAL", "PG", 18.0, map[string]float64{"PTS": 6.5, "REB": 1.6, "AST": 2.4, "STL": 0.6, "BLK": 0.1, "TOV": 0.8, "FG3M": 1.1, "FTM": 0.6}},
		{"1629060", "Jaxson Hayes", 1610612747, "LAL", "C", 15.5, map[string]float64{"PTS": 5.0, "REB": 3.9, "AST": 0.8, "STL": 0.4, "BLK": 0.7, "TOV": 0.6, "FG3M": 0.0, "FTM": 1.0}},
		{"1631108", "Max Christie", 1610612747, "LAL", "SG", 13.0, map[string]float64{"PTS": 4.2, "REB": 2.1, "AST": 1.1, "STL": 0.4, "BLK": 0.3, "TOV": 0.4, "FG3M": 0.8, "FTM": 0.5}},
		{"1630692", "Dalton Knecht", 1610612747, "LAL", "SF", 10.0, map[string]float64{"PTS": 4.0, "REB": 1.5, "AST": 0.5, "STL": 0.2, "BLK": 0.1, "TOV": 0.3, "FG3M": 0.9, "FTM": 0.3}},
	}

	for _, sp := range seedPlayers {
		player := models.Player{
			ExternalID:      sp.id,
			Name:            sp.name,
			TeamID:          sp.teamID,
			Team:            sp.team,
			Position:        sp.position,
			BaselineMinutes: sp.minutes,
		}
		if err := player.SetBaselineStats(sp.stats); err != nil {
			return fmt.Errorf("failed to encode stats for %s: %w", sp.name, err)
		}
		if err := db.Create(&player).Error; err != nil {
			return fmt.Errorf("failed to create player %s: %w", sp.name, err)
		}

		// Recent game logs so the activity checks have data to work with
		for g := 0; g < 5; g++ {
			log := models.GameLog{
				PlayerExternalID: sp.id,
				TeamID:           sp.teamID,
				GameID:           fmt.Sprintf("002250000%d%d", sp.teamID%10, g),
				GameDate:         gameDate.AddDate(0, 0, -(g*2 + 1)),
				Minutes:          sp.minutes,
				Points:           sp.stats["PTS"],
				Rebounds:         sp.stats["REB"],
				Assists:          sp.stats["AST"],
			}
			if err := db.Create(&log).Error; err != nil {
				return fmt.Errorf("failed to create game log: %w", err)
			}
		}
	}

	// A star ruled out, to exercise vacated-minutes redistribution
	injury := models.InjuryRecord{
		ReportDate:       gameDate.Truncate(24 * time.Hour),
		PlayerExternalID: "1628400",
		PlayerName:       "Kristaps Porzingis",
		Team:             "BOS",
		TeamID:           1610612738,
		Status:           models.InjuryStatusOut,
		Reason:           "Ankle sprain",
	}
	if err := db.Create(&injury).Error; err != nil {
		return fmt.Errorf("failed to create injury record: %w", err)
	}

	// Prop lines for the headliners
	lines := []models.PropLine{
		{GameID: game.ID, PlayerExternalID: "1628369", Stat: "PTS", Line: 27.5, OverOdds: -115, UnderOdds: -105, Book: "underdog"},
		{GameID: game.ID, PlayerExternalID: "1628369", Stat: "PRA", Line: 41.5, OverOdds: -110, UnderOdds: -110, Book: "underdog"},
		{GameID: game.ID, PlayerExternalID: "2544", Stat: "AST", Line: 7.5, OverOdds: -120, UnderOdds: 100, Book: "underdog"},
		{GameID: game.ID, PlayerExternalID: "203076", Stat: "REB", Line: 11.5, OverOdds: -105, UnderOdds: -115, Book: "underdog"},
	}
	if err := db.Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to create prop lines: %w", err)
	}

	logrus.Infof("Seeded %d players for %s", len(seedPlayers), game.Matchup())
	return nil
}
