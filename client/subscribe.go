package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Event is a push notification that a page changed.
type Event struct {
	PageID    string    `json:"page_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscribeToPage opens the long-lived push channel for one page and
// returns a channel of change events. The channel closes when the server
// ends the stream or ctx is cancelled. Keep-alive comment frames are
// consumed silently.
func (c *Client) SubscribeToPage(ctx context.Context, pageID string) (<-chan Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/pages/"+pageID+"/subscribe", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	// The stream outlives any request timeout configured on c.http;
	// cancellation comes from ctx instead.
	resp, err := (&http.Client{Transport: c.http.Transport}).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		var problem struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&problem)
		resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Detail: problem.Detail}
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue // event name, comment, or blank separator
			}
			var ev Event
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
