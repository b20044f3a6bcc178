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
)

// InjuryReportEntry is one structured row from the injury feed. The feed has
// already parsed the league's PDF report; this client only consumes the
// structured output.
type InjuryReportEntry struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	TeamID     int    `json:"team_id"`
	Status     string `json:"status"` // OUT, DOUBTFUL, QUESTIONABLE, PROBABLE, AVAILABLE
	Reason     string `json:"reason"`
}

// InjuryFeedClient fetches the structured injury report for a date.
type InjuryFeedClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewInjuryFeedClient(baseURL string, timeout time.Duration, breakerThreshold int, logger *logrus.Logger) *InjuryFeedClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "injury-feed",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(breakerThreshold)
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &InjuryFeedClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// GetInjuryReport returns the injury rows for the given date. An unconfigured
// feed (empty base URL) returns no rows rather than an error; a missing
// report is a first-class input state for the projection pipeline.
func (c *InjuryFeedClient) GetInjuryReport(ctx context.Context, date time.Time) ([]InjuryReportEntry, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		params := url.Values{}
		params.Set("date", date.Format("2006-01-02"))
		endpoint := c.baseURL + "/injuries?" + params.Encode()

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

		if resp.StatusCode == http.StatusNotFound {
			// Report not published yet for this date.
			return []InjuryReportEntry{}, nil
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from injury feed", resp.StatusCode)
		}

		var entries []InjuryReportEntry
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return nil, err
		}
		return entries, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch injury report: %w", err)
	}
	return result.([]InjuryReportEntry), nil
}
