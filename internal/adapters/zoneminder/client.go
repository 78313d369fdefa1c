package zoneminder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/homewatch-cli/internal/ports"
)

// Client lists camera monitors from a ZoneMinder instance and builds the
// zms CGI URLs used to watch their live streams.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ ports.MonitorSource = (*Client)(nil)

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

// monitorsPayload mirrors ZoneMinder's monitors.json shape: a list of
// wrappers, each holding the monitor record under a "Monitor" key.
type monitorsPayload struct {
	Monitors []struct {
		Monitor struct {
			ID       string `json:"Id"`
			Name     string `json:"Name"`
			Function string `json:"Function"`
		} `json:"Monitor"`
	} `json:"monitors"`
}

func (c *Client) Monitors(ctx context.Context) ([]ports.Monitor, error) {
	endpoint := c.baseURL + "/api/monitors.json"
	if c.token != "" {
		endpoint += "?token=" + url.QueryEscape(c.token)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
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
		return nil, fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload monitorsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode monitors: %w", err)
	}

	monitors := make([]ports.Monitor, 0, len(payload.Monitors))
	for _, wrapper := range payload.Monitors {
		record := wrapper.Monitor
		if record.ID == "" {
			continue
		}
		monitors = append(monitors, ports.Monitor{
			ID:      record.ID,
			Name:    record.Name,
			Enabled: !strings.EqualFold(record.Function, "None") && record.Function != "",
		})
	}

	return monitors, nil
}

// StreamURL builds the live MJPEG stream URL for a monitor.
func (c *Client) StreamURL(monitorID string) string {
	values := url.Values{}
	values.Set("mode", "jpeg")
	values.Set("monitor", monitorID)
	values.Set("scale", "100")
	if c.token != "" {
		values.Set("token", c.token)
	}

	return c.baseURL + "/cgi-bin/nph-zms?" + values.Encode()
}
