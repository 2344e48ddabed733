// Package trade talks to the official trade site API. The flow is
// two-step: POST a search to get result IDs, then GET a fetch for the
// item details. Both endpoints are limited to roughly one request per
// second per IP with small bursts allowed.
package trade

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"exile-tracker/internal/constants"
	"exile-tracker/internal/domain"
	"exile-tracker/internal/item"
	"exile-tracker/internal/metrics"
)

var baseURLs = map[domain.Game]string{
	domain.GamePoE1: "https://www.pathofexile.com/api/trade",
	domain.GamePoE2: "https://www.pathofexile.com/api/trade2",
}

type Client struct {
	client     *fasthttp.Client
	limiter    *rate.Limiter
	normalizer *item.Normalizer
	logger     zerolog.Logger

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Rule      string    `json:"rule"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(normalizer *item.Normalizer, logger zerolog.Logger) *Client {
	return &Client{
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         constants.TradeRequestTimeout,
			WriteTimeout:        constants.TradeRequestTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter:    rate.NewLimiter(rate.Limit(constants.TradeRequestsPerSecond), constants.TradeBurst),
		normalizer: normalizer,
		logger:     logger.With().Str("component", "trade").Logger(),
	}
}

func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if rule := string(resp.Header.Peek("X-Rate-Limit-Ip")); rule != "" {
		c.rateLimit.Rule = rule
	}
	if state := string(resp.Header.Peek("X-Rate-Limit-Ip-State")); state != "" {
		c.rateLimit.State = state
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// Query is the trade site search body. BuildQuery covers the common
// cases; callers needing unusual filters can assemble one directly.
type Query struct {
	Query querySpec `json:"query"`
	Sort  sortSpec  `json:"sort"`
}

type querySpec struct {
	Status  statusSpec    `json:"status"`
	Type    string        `json:"type,omitempty"`
	Stats   []statGroup   `json:"stats,omitempty"`
	Filters *queryFilters `json:"filters,omitempty"`
}

type statusSpec struct {
	Option string `json:"option"`
}

type statGroup struct {
	Type    string       `json:"type"`
	Filters []statFilter `json:"filters"`
}

type statFilter struct {
	ID    string     `json:"id"`
	Value *statValue `json:"value,omitempty"`
}

type statValue struct {
	Min float64 `json:"min"`
}

type queryFilters struct {
	TradeFilters *tradeFilters `json:"trade_filters,omitempty"`
}

type tradeFilters struct {
	Filters priceFilters `json:"filters"`
}

type priceFilters struct {
	Price priceBound `json:"price"`
}

type priceBound struct {
	Max float64 `json:"max"`
}

// QueryOptions selects filters for BuildQuery. Zero values disable
// the corresponding filter.
type QueryOptions struct {
	BaseType      string
	MinLife       float64
	MaxPriceChaos float64
	OfflineOK     bool
}

func BuildQuery(opts QueryOptions) Query {
	q := Query{
		Query: querySpec{
			Status: statusSpec{Option: "online"},
			Type:   opts.BaseType,
		},
		Sort: sortSpec{Price: "asc"},
	}
	if opts.OfflineOK {
		q.Query.Status.Option = "any"
	}
	if opts.MinLife > 0 {
		q.Query.Stats = []statGroup{{
			Type: "and",
			Filters: []statFilter{{
				ID:    "pseudo.pseudo_total_life",
				Value: &statValue{Min: opts.MinLife},
			}},
		}}
	}
	if opts.MaxPriceChaos > 0 {
		q.Query.Filters = &queryFilters{
			TradeFilters: &tradeFilters{
				Filters: priceFilters{Price: priceBound{Max: opts.MaxPriceChaos}},
			},
		}
	}
	return q
}

type sortSpec struct {
	Price string `json:"price"`
}

type searchResponse struct {
	ID     string   `json:"id"`
	Result []string `json:"result"`
	Total  int      `json:"total"`
}

type fetchResponse struct {
	Result []fetchResult `json:"result"`
}

type fetchResult struct {
	ID      string          `json:"id"`
	Item    json.RawMessage `json:"item"`
	Listing fetchListing    `json:"listing"`
}

type fetchListing struct {
	Price *fetchPrice `json:"price"`
}

type fetchPrice struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Search posts a query and returns up to limit result IDs plus the
// query ID, which fetch requests should echo back.
func (c *Client) Search(ctx context.Context, game domain.Game, league string, query Query, limit int) (string, []string, error) {
	base, ok := baseURLs[game]
	if !ok {
		return "", nil, fmt.Errorf("trade search: unsupported game %q", game)
	}

	body, err := json.Marshal(query)
	if err != nil {
		return "", nil, fmt.Errorf("trade search: encode query: %w", err)
	}

	var result searchResponse
	url := fmt.Sprintf("%s/search/%s", base, league)
	if err := c.do(ctx, fasthttp.MethodPost, url, body, &result); err != nil {
		metrics.TradeRequestsTotal.WithLabelValues("search", "error").Inc()
		return "", nil, fmt.Errorf("trade search: %w", err)
	}
	metrics.TradeRequestsTotal.WithLabelValues("search", "ok").Inc()

	ids := result.Result
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	c.logger.Debug().
		Str("league", league).
		Int("total", result.Total).
		Int("returned", len(ids)).
		Msg("trade search complete")

	return result.ID, ids, nil
}

// Fetch retrieves listings for up to ten result IDs. Results whose
// item payload cannot be normalized are skipped with a warning.
func (c *Client) Fetch(ctx context.Context, game domain.Game, queryID string, resultIDs []string) ([]domain.Listing, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	base, ok := baseURLs[game]
	if !ok {
		return nil, fmt.Errorf("trade fetch: unsupported game %q", game)
	}
	if len(resultIDs) > constants.TradeFetchBatchSize {
		resultIDs = resultIDs[:constants.TradeFetchBatchSize]
	}

	url := fmt.Sprintf("%s/fetch/%s", base, strings.Join(resultIDs, ","))
	if queryID != "" {
		url += "?query=" + queryID
	}

	var result fetchResponse
	if err := c.do(ctx, fasthttp.MethodGet, url, nil, &result); err != nil {
		metrics.TradeRequestsTotal.WithLabelValues("fetch", "error").Inc()
		return nil, fmt.Errorf("trade fetch: %w", err)
	}
	metrics.TradeRequestsTotal.WithLabelValues("fetch", "ok").Inc()

	listings := make([]domain.Listing, 0, len(result.Result))
	for _, r := range result.Result {
		it, err := c.normalizer.Normalize(r.Item, item.SourceMarket)
		if err != nil {
			c.logger.Warn().Err(err).Str("result_id", r.ID).Msg("skipping unparseable listing")
			continue
		}

		listing := domain.Listing{ID: r.ID, Item: it}
		if r.Listing.Price != nil {
			listing.Price = decimal.NewFromFloat(r.Listing.Price.Amount)
			listing.Currency = r.Listing.Price.Currency
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// SearchAndFetch runs the two-step flow and returns normalized listings.
func (c *Client) SearchAndFetch(ctx context.Context, game domain.Game, league string, query Query, limit int) ([]domain.Listing, error) {
	queryID, ids, err := c.Search(ctx, game, league, query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.logger.Debug().Str("league", league).Msg("trade search returned no results")
		return nil, nil
	}
	return c.Fetch(ctx, game, queryID, ids)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("User-Agent", constants.TradeUserAgent)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return err
		}
	}

	c.updateRateLimit(resp)

	if resp.StatusCode() == fasthttp.StatusTooManyRequests {
		return fmt.Errorf("rate limited (retry-after %s)", resp.Header.Peek("Retry-After"))
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("API error: %d", resp.StatusCode())
	}

	return json.Unmarshal(resp.Body(), out)
}
