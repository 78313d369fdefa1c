package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/homewatch-cli/internal/ports"
)

var ErrUnauthorized = errors.New("home assistant rejected the access token")

// Client reads entity states from a Home Assistant instance through its
// REST API (`GET /api/states` with a long-lived access token).
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ ports.EntitySource = (*Client)(nil)

func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

type stateEnvelope struct {
	EntityID    string    `json:"entity_id"`
	State       string    `json:"state"`
	LastUpdated time.Time `json:"last_updated"`
}

func (c *Client) States(ctx context.Context) ([]ports.EntityState, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/states", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: status %d: %s", ErrUnauthorized, response.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelopes []stateEnvelope
	if err := json.Unmarshal(body, &envelopes); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}

	states := make([]ports.EntityState, 0, len(envelopes))
	for _, envelope := range envelopes {
		if envelope.EntityID == "" {
			continue
		}
		states = append(states, ports.EntityState{
			EntityID:    envelope.EntityID,
			State:       envelope.State,
			LastUpdated: envelope.LastUpdated,
		})
	}

	return states, nil
}
