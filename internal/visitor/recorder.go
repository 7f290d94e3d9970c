package visitor

import (
	"context"
	"net"
	"strings"
	"time"

	"portfolio-api/internal/geo"
	"portfolio-api/pkg/logger"

	"github.com/google/uuid"
)

// GeoLookup resolves an IP address to coarse geography. Failures are
// expected and must stay inside the recorder.
type GeoLookup interface {
	Lookup(ctx context.Context, ip string) (geo.Info, error)
}

// RequestInfo carries the only request attributes tracking needs. The
// HTTP handler copies these out before detaching, so the recorder never
// touches a recycled request object.
type RequestInfo struct {
	ForwardedFor string
	RemoteAddr   string
	UserAgent    string
}

// Recorder persists one Record per qualifying request, best-effort.
//
// Record never returns an error and never panics its caller: geo lookup
// and store failures are logged at debug level and swallowed. Tracking
// must not degrade the page-data response under any circumstance.
type Recorder struct {
	repo  Repository
	geo   GeoLookup
	clock func() time.Time

	// trackLocal keeps loopback visits. Skipping them broke tracking on
	// a hosted deployment that fronted requests through localhost, so
	// the default is true.
	trackLocal bool

	// timeout bounds one detached tracking run end to end.
	timeout time.Duration
}

type RecorderOption func(*Recorder)

// WithClock injects a time source (tests).
func WithClock(clock func() time.Time) RecorderOption {
	return func(r *Recorder) { r.clock = clock }
}

// WithTrackLocal sets the loopback policy.
func WithTrackLocal(track bool) RecorderOption {
	return func(r *Recorder) { r.trackLocal = track }
}

// WithTimeout bounds a single tracking run.
func WithTimeout(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.timeout = d }
}

func NewRecorder(repo Repository, geoClient GeoLookup, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		repo:       repo,
		geo:        geoClient,
		clock:      time.Now,
		trackLocal: true,
		timeout:    10 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record runs the full tracking pipeline for one request: address
// extraction, loopback policy, UA classification, geo enrichment,
// persistence. Each step is independently fault-tolerant.
//
// Call it in its own goroutine with a context detached from the request;
// the caller holds no reference to the outcome.
func (r *Recorder) Record(ctx context.Context, req RequestInfo) {
	defer func() {
		if p := recover(); p != nil {
			logger.From(ctx).Debug("visitor tracking panicked", "panic", p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ip := clientIP(req)
	if !r.trackLocal && isLoopback(ip) {
		return
	}

	ua := req.UserAgent
	if len(ua) > MaxUserAgentLen {
		ua = ua[:MaxUserAgentLen]
	}
	browser, os := Classify(ua)

	// One attempt, no retry. Any failure degrades to Unknown.
	info := geo.Unknown()
	if r.geo != nil {
		if looked, err := r.geo.Lookup(ctx, ip); err == nil {
			info = looked
		} else {
			logger.From(ctx).Debug("geo lookup failed", "ip", ip, "err", err)
		}
	}

	rec := Record{
		ID:          uuid.NewString(),
		IPAddress:   ip,
		Country:     info.Country,
		CountryCode: info.CountryCode,
		City:        info.City,
		Region:      info.Region,
		ISP:         info.ISP,
		UserAgent:   ua,
		Browser:     browser,
		OS:          os,
		VisitedAt:   r.clock().UTC(),
	}

	if err := r.repo.Insert(ctx, rec); err != nil {
		// Silent fail: one lost record is acceptable, a failed page load is not.
		logger.From(ctx).Debug("visitor insert failed", "err", err)
	}
}

// clientIP prefers the first forwarded-for entry, then the transport
// remote address, then a loopback placeholder.
func clientIP(req RequestInfo) string {
	if req.ForwardedFor != "" {
		first, _, _ := strings.Cut(req.ForwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if req.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
			return host
		}
		return req.RemoteAddr
	}
	return "127.0.0.1"
}

func isLoopback(ip string) bool {
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.IsLoopback()
	}
	return false
}
