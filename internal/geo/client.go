package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Info holds the coarse geographic attributes kept per visitor.
type Info struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	Region      string `json:"region"`
	ISP         string `json:"isp"`
}

// Unknown is the soft-failure value. Callers that cannot resolve an IP
// persist this instead of propagating an error.
func Unknown() Info {
	return Info{Country: "Unknown"}
}

// Client resolves an IP address to coarse geography via an ip-api.com
// style JSON endpoint: GET <base>/json/<ip>?fields=...
//
// The service is unauthenticated and unreliable; callers must treat any
// error as soft. One attempt per lookup, no retry. The free tier allows
// 45 requests per minute, enforced client-side so a burst of traffic
// degrades to Unknown records instead of getting the host banned.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rateLimiter
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the requests-per-minute budget.
func WithRateLimit(perMinute int) Option {
	return func(c *Client) { c.limiter = newRateLimiter(perMinute, time.Minute/time.Duration(perMinute)) }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		limiter:    newRateLimiter(45, time.Minute/45),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response is the ip-api.com wire format for the fields we request.
type response struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	RegionName  string `json:"regionName"`
	ISP         string `json:"isp"`
}

// Lookup resolves ip to geographic attributes. Errors cover invalid
// input, rate limiting, transport failures and malformed or unsuccessful
// responses; the caller decides what a failure means.
func (c *Client) Lookup(ctx context.Context, ip string) (Info, error) {
	if net.ParseIP(ip) == nil {
		return Info{}, fmt.Errorf("geo: invalid ip address %q", ip)
	}
	if !c.limiter.Allow() {
		return Info{}, fmt.Errorf("geo: rate limit exceeded")
	}

	url := fmt.Sprintf("%s/json/%s?fields=status,message,country,countryCode,city,regionName,isp", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Info{}, fmt.Errorf("geo: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("geo: lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("geo: service returned status %d", resp.StatusCode)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Info{}, fmt.Errorf("geo: decode response: %w", err)
	}
	if result.Status != "success" {
		return Info{}, fmt.Errorf("geo: lookup failed: %s", result.Message)
	}

	return Info{
		Country:     result.Country,
		CountryCode: result.CountryCode,
		City:        result.City,
		Region:      result.RegionName,
		ISP:         result.ISP,
	}, nil
}

// rateLimiter is a token bucket refilled over time.
type rateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

func newRateLimiter(maxTokens int, refillRate time.Duration) *rateLimiter {
	return &rateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (r *rateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(r.lastRefill)
	tokensToAdd := int(elapsed / r.refillRate)
	if tokensToAdd > 0 {
		r.tokens = min(r.maxTokens, r.tokens+tokensToAdd)
		r.lastRefill = now
	}

	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}
