// Package discovery talks to the fixture registry: the small HTTP service
// that knows which matches run today and where their live consumers listen.
package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pitchside/matchcast/pkg/core"
)

// Client handles communication with the fixture registry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new registry client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Healthcheck checks if the registry is reachable.
func (c *Client) Healthcheck() error {
	resp, err := c.httpClient.Get(c.baseURL + "/healthcheck")
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck returned status %d", resp.StatusCode)
	}
	return nil
}

type announceRequest struct {
	Secret    string `json:"secret"`
	TeamLeft  string `json:"team_left"`
	TeamRight string `json:"team_right"`
}

type announceResponse struct {
	MatchID     string `json:"match_id"`
	ConsumerURL string `json:"consumer_url"`
}

// Announce registers an upcoming match and returns the registry's match id
// plus the WebSocket URL of the live consumer assigned to it.
func (c *Client) Announce(meta core.MatchMetadata) (matchID, consumerURL string, err error) {
	body, err := json.Marshal(announceRequest{
		Secret:    c.apiKey,
		TeamLeft:  meta.LeftTeam.Name,
		TeamRight: meta.RightTeam.Name,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal announce request: %w", err)
	}

	resp, err := c.httpClient.Post(
		c.baseURL+"/api/v1/matches/announce", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("announce request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("announce returned status %d", resp.StatusCode)
	}

	var ar announceResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return "", "", fmt.Errorf("decode announce response: %w", err)
	}
	if ar.ConsumerURL == "" {
		return "", "", fmt.Errorf("registry assigned no consumer for match %s", ar.MatchID)
	}
	return ar.MatchID, ar.ConsumerURL, nil
}

type resultRequest struct {
	Secret     string `json:"secret"`
	MatchID    string `json:"match_id"`
	TeamLeft   string `json:"team_left"`
	ScoreLeft  int    `json:"score_left"`
	TeamRight  string `json:"team_right"`
	ScoreRight int    `json:"score_right"`
}

// ReportResult posts the final score once the match ends.
func (c *Client) ReportResult(matchID string, end core.EndOfMatch) error {
	body, err := json.Marshal(resultRequest{
		Secret:     c.apiKey,
		MatchID:    matchID,
		TeamLeft:   end.TeamLeft,
		ScoreLeft:  end.ScoreLeft,
		TeamRight:  end.TeamRight,
		ScoreRight: end.ScoreRight,
	})
	if err != nil {
		return fmt.Errorf("marshal result request: %w", err)
	}

	resp, err := c.httpClient.Post(
		c.baseURL+"/api/v1/matches/result", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("result request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("result returned status %d", resp.StatusCode)
	}
	return nil
}
