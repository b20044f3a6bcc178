package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ScheduledGame is one matchup from the league schedule endpoint.
type ScheduledGame struct {
	GameID      string    `json:"game_id"`
	GameDate    time.Time `json:"game_date"`
	AwayTeamID  int       `json:"away_team_id"`
	HomeTeamID  int       `json:"home_team_id"`
	AwayTricode string    `json:"away_tricode"`
	HomeTricode string    `json:"home_tricode"`
	Status      string    `json:"status"`
}

// PlayerAverages is one player's season per-game baseline from the league
// dashboard endpoint.
type PlayerAverages struct {
	PlayerID string             `json:"player_id"`
	Name     string             `json:"name"`
	TeamID   int                `json:"team_id"`
	Team     string             `json:"team"`
	Position string             `json:"position"`
	Minutes  float64            `json:"minutes"`
	Stats    map[string]float64 `json:"stats"` // PTS, REB, AST, STL, BLK, TOV, FG3M, FTM
}

// GameLogEntry is one player appearance in one game.
type GameLogEntry struct {
	PlayerID string    `json:"player_id"`
	TeamID   int       `json:"team_id"`
	GameID   string    `json:"game_id"`
	GameDate time.Time `json:"game_date"`
	Minutes  float64   `json:"minutes"`
	Points   float64   `json:"points"`
	Rebounds float64   `json:"rebounds"`
	Assists  float64   `json:"assists"`
}

// NBAStatsClient talks to the hosted NBA stats API. Requests go through a
// shared rate limiter and a circuit breaker so a flaky upstream degrades to
// "no data" instead of hammering the endpoint.
type NBAStatsClient struct {
	baseURL    string
	season     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewNBAStatsClient(baseURL, season string, requestsPerSecond int, timeout time.Duration, breakerThreshold int, logger *logrus.Logger) *NBAStatsClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "nba-stats",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &NBAStatsClient{
		baseURL:    baseURL,
		season:     season,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		breaker:    breaker,
		logger:     logger,
	}
}

// GetScheduleByDate returns the matchups scheduled for the given date.
func (c *NBAStatsClient) GetScheduleByDate(ctx context.Context, date time.Time) ([]ScheduledGame, error) {
	params := url.Values{}
	params.Set("GameDate", date.Format("2006-01-02"))
	params.Set("Season", c.season)

	var games []ScheduledGame
	if err := c.getJSON(ctx, "/scheduleleaguev2", params, &games); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return games, nil
}

// GetSeasonAverages returns per-game season baselines for every player.
func (c *NBAStatsClient) GetSeasonAverages(ctx context.Context) ([]PlayerAverages, error) {
	params := url.Values{}
	params.Set("Season", c.season)
	params.Set("PerMode", "PerGame")
	params.Set("SeasonType", "Regular Season")

	var averages []PlayerAverages
	if err := c.getJSON(ctx, "/leaguedashplayerstats", params, &averages); err != nil {
		return nil, fmt.Errorf("failed to fetch season averages: %w", err)
	}
	return averages, nil
}

// GetGameLogs returns league-wide player game logs for the season.
func (c *NBAStatsClient) GetGameLogs(ctx context.Context) ([]GameLogEntry, error) {
	params := url.Values{}
	params.Set("Season", c.season)
	params.Set("SeasonType", "Regular Season")

	var logs []GameLogEntry
	if err := c.getJSON(ctx, "/playergamelogs", params, &logs); err != nil {
		return nil, fmt.Errorf("failed to fetch game logs: %w", err)
	}
	return logs, nil
}

func (c *NBAStatsClient) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		endpoint := c.baseURL + path
		if len(params) > 0 {
			endpoint += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
		}

		return nil, json.NewDecoder(resp.Body).Decode(dest)
	})
	return err
}
