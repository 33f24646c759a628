// Package prices enriches event rewards with trading-post sell prices from
// the GW2 commerce API. Strictly a fire-and-forget enrichment: fetches run
// off the evaluation path, failures are logged and the cache simply stays
// stale.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tyria-tracker/tyria/internal/domain"
	"github.com/tyria-tracker/tyria/internal/infra/metrics"
)

// DefaultEndpoint is the public commerce price listing API.
const DefaultEndpoint = "https://api.guildwars2.com/v2/commerce/prices"

// Service fetches and caches item prices in copper coins.
type Service struct {
	endpoint string
	client   *http.Client
	refresh  time.Duration

	mu    sync.RWMutex
	cache map[int]int // item ID -> unit price in copper
}

// New creates a price service. An empty endpoint uses the public API.
func New(endpoint string, refresh time.Duration) *Service {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if refresh <= 0 {
		refresh = 10 * time.Minute
	}
	return &Service{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		refresh:  refresh,
		cache:    make(map[int]int),
	}
}

// Snapshot returns a copy of the current price cache.
func (s *Service) Snapshot() map[int]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]int, len(s.cache))
	for id, p := range s.cache {
		out[id] = p
	}
	return out
}

// Price returns the cached price for one item, or (0, false) if unknown.
func (s *Service) Price(itemID int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cache[itemID]
	return p, ok
}

// RewardItemIDs collects the distinct tradeable item IDs across a catalog's
// rewards, sorted for stable request URLs.
func RewardItemIDs(events []domain.EventDefinition) []int {
	seen := make(map[int]bool)
	for _, def := range events {
		for _, r := range def.Rewards {
			if r.Kind == domain.RewardItem && r.ItemID > 0 {
				seen[r.ItemID] = true
			}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// priceListing is the subset of the commerce API response we read.
type priceListing struct {
	ID    int `json:"id"`
	Sells struct {
		UnitPrice int `json:"unit_price"`
	} `json:"sells"`
	Buys struct {
		UnitPrice int `json:"unit_price"`
	} `json:"buys"`
}

// Fetch retrieves prices for the given items and updates the cache.
// Sell price is preferred, buy price is the fallback (mirrors the dashboard).
func (s *Service) Fetch(ctx context.Context, itemIDs []int) error {
	if len(itemIDs) == 0 {
		return nil
	}

	parts := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		parts[i] = strconv.Itoa(id)
	}
	url := s.endpoint + "?ids=" + strings.Join(parts, ",")

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.PriceFetchFailures.Inc()
		return fmt.Errorf("fetch prices: %w", err)
	}
	defer resp.Body.Close()
	metrics.PriceFetchLatency.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.PriceFetchFailures.Inc()
		return fmt.Errorf("fetch prices: unexpected status %d", resp.StatusCode)
	}

	var listings []priceListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		metrics.PriceFetchFailures.Inc()
		return fmt.Errorf("decode prices: %w", err)
	}

	s.mu.Lock()
	for _, l := range listings {
		price := l.Sells.UnitPrice
		if price == 0 {
			price = l.Buys.UnitPrice
		}
		s.cache[l.ID] = price
	}
	s.mu.Unlock()
	return nil
}

// Run refreshes the cache for the catalog's reward items until ctx is
// cancelled. The first fetch happens immediately.
func (s *Service) Run(ctx context.Context, events []domain.EventDefinition) {
	ids := RewardItemIDs(events)
	if len(ids) == 0 {
		return
	}

	if err := s.Fetch(ctx, ids); err != nil {
		log.Printf("[prices] initial fetch: %v", err)
	}

	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Fetch(ctx, ids); err != nil {
				log.Printf("[prices] refresh: %v", err)
			}
		}
	}
}

// FormatCopper renders copper as "XgYsZc" the way the trading post does.
func FormatCopper(copper int) string {
	gold := copper / 10000
	silver := (copper % 10000) / 100
	c := copper % 100

	var b strings.Builder
	if gold > 0 {
		fmt.Fprintf(&b, "%dg", gold)
	}
	if silver > 0 {
		fmt.Fprintf(&b, "%ds", silver)
	}
	if c > 0 || b.Len() == 0 {
		fmt.Fprintf(&b, "%dc", c)
	}
	return b.String()
}
