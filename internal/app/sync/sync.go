// Package sync pushes completion state and daily progress to a remote
// tracker backend, so the same profile can be picked up from another machine.
// Pushes are fire-and-forget: they run off the evaluation path and a failed
// push costs nothing but a log line and a retry on the next change.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tyria-tracker/tyria/internal/domain"
	"github.com/tyria-tracker/tyria/internal/infra/metrics"
	"github.com/tyria-tracker/tyria/internal/infra/sqlite"
)

const userIDKey = "sync_user_id"

// Client talks to the remote tracker backend.
type Client struct {
	baseURL string
	userID  string
	client  *http.Client
}

// New builds a sync client, minting and persisting a stable anonymous user
// ID on first use.
func New(baseURL string, db *sqlite.DB) (*Client, error) {
	if baseURL == "" {
		return nil, domain.ErrSyncDisabled
	}

	id, err := db.GetMeta(userIDKey)
	if err != nil {
		return nil, fmt.Errorf("load sync identity: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
		if err := db.SetMeta(userIDKey, id); err != nil {
			return nil, fmt.Errorf("store sync identity: %w", err)
		}
	}

	return &Client{
		baseURL: baseURL,
		userID:  id,
		client:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// UserID returns the stable anonymous identity used for remote storage keys.
func (c *Client) UserID() string { return c.userID }

// eventsPayload mirrors the backend's events document.
type eventsPayload struct {
	CompletedEvents     map[string]bool `json:"completedEvents"`
	CompletedEventTypes map[string]bool `json:"completedEventTypes"`
}

// progressPayload mirrors the backend's daily-progress document.
type progressPayload struct {
	Date          string               `json:"date"`
	DailyProgress domain.DailyProgress `json:"dailyProgress"`
}

// PushEvents uploads the completion sets for the current UTC day.
func (c *Client) PushEvents(ctx context.Context, state domain.CompletionState) error {
	return c.put(ctx, "/api/events/"+c.userID, eventsPayload{
		CompletedEvents:     state.Occurrences,
		CompletedEventTypes: state.EventTypes,
	})
}

// PushProgress uploads the daily checklist state for the given UTC date.
func (c *Client) PushProgress(ctx context.Context, date time.Time, progress domain.DailyProgress) error {
	return c.put(ctx, "/api/progress/"+c.userID, progressPayload{
		Date:          date.UTC().Format("2006-01-02"),
		DailyProgress: progress,
	})
}

// FetchHistory downloads every per-date progress document stored for this
// user, most recent date first. The backend keys documents by (user, date),
// so the full set is the user's checklist history.
func (c *Client) FetchHistory(ctx context.Context) ([]domain.HistoryDay, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/progress/"+c.userID, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.SyncFailures.Inc()
		return nil, fmt.Errorf("sync fetch: %w", err)
	}
	defer resp.Body.Close()
	metrics.SyncLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.SyncFailures.Inc()
		return nil, fmt.Errorf("sync fetch: unexpected status %d", resp.StatusCode)
	}

	var docs map[string]progressPayload // date -> document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		metrics.SyncFailures.Inc()
		return nil, fmt.Errorf("sync fetch: decode: %w", err)
	}

	dates := make([]string, 0, len(docs))
	for date := range docs {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make([]domain.HistoryDay, 0, len(dates))
	for _, date := range dates {
		out = append(out, domain.HistoryDay{Date: date, Progress: docs[date].DailyProgress})
	}
	return out, nil
}

func (c *Client) put(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.SyncFailures.Inc()
		return fmt.Errorf("sync push: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	metrics.SyncLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.SyncFailures.Inc()
		return fmt.Errorf("sync push: unexpected status %d", resp.StatusCode)
	}
	return nil
}
