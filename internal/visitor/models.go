package visitor

import (
	"context"
	"time"
)

// MaxUserAgentLen bounds stored User-Agent values. Anything longer is
// truncated, never rejected.
const MaxUserAgentLen = 500

// Record is one immutable visitor entry, created at most once per
// tracked request.
//
// Invariants:
// - Records are never updated or deleted by the tracker.
// - Geo fields are best-effort; a failed lookup leaves them at the
//   Unknown defaults and the record is still written.
type Record struct {
	ID string `json:"id" db:"id"`

	// IPAddress is the best-effort client address: first forwarded-for
	// entry, else the transport-level remote address.
	IPAddress string `json:"ipAddress" db:"ip_address"`

	Country     string `json:"country" db:"country"`
	CountryCode string `json:"countryCode" db:"country_code"`
	City        string `json:"city" db:"city"`
	Region      string `json:"region" db:"region"`
	ISP         string `json:"isp" db:"isp"`

	UserAgent string `json:"userAgent" db:"user_agent"`
	Browser   string `json:"browser" db:"browser"`
	OS        string `json:"os" db:"os"`

	VisitedAt time.Time `json:"visitedAt" db:"visited_at"`
}

// Browser categories.
const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOther   = "Other"
)

// OS categories.
const (
	OSWindows = "Windows"
	OSMac     = "macOS"
	OSLinux   = "Linux"
	OSAndroid = "Android"
	OSIOS     = "iOS"
	OSOther   = "Other"
)

// CountryCount is one byCountry bucket.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// BucketCount is one byBrowser/byOs bucket.
type BucketCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyCount is one calendar-day bucket (local server date, YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Report is the combined analytics payload for the admin dashboard.
type Report struct {
	Total     int            `json:"total"`
	Today     int            `json:"today"`
	ByCountry []CountryCount `json:"byCountry"`
	ByBrowser []BucketCount  `json:"byBrowser"`
	ByOS      []BucketCount  `json:"byOs"`
	Recent    []Record       `json:"recent"`
	Daily     []DailyCount   `json:"daily"`
}

// Repository is the persistence contract for visitor records.
//
// Insert is append-only; no update or delete exists here. The read
// methods are exactly the queries the analytics report needs.
// Implementations must tolerate concurrent appends.
type Repository interface {
	Insert(ctx context.Context, rec Record) error

	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	CountByCountry(ctx context.Context, limit int) ([]CountryCount, error)
	CountByBrowser(ctx context.Context) ([]BucketCount, error)
	CountByOS(ctx context.Context) ([]BucketCount, error)
	Recent(ctx context.Context, limit int) ([]Record, error)
	DailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error)
}
