package visitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"portfolio-api/internal/geo"
)

type stubGeo struct {
	info geo.Info
	err  error
}

func (s stubGeo) Lookup(ctx context.Context, ip string) (geo.Info, error) {
	return s.info, s.err
}

func TestRecordPersistsEnrichedVisit(t *testing.T) {
	repo := NewMemoryRepo()
	g := stubGeo{info: geo.Info{Country: "Bangladesh", CountryCode: "BD", City: "Dhaka", Region: "Dhaka Division", ISP: "Example ISP"}}
	now := time.Unix(1700000000, 0).UTC()
	r := NewRecorder(repo, g, WithClock(func() time.Time { return now }))

	r.Record(context.Background(), RequestInfo{
		ForwardedFor: "203.0.113.9, 10.0.0.1",
		RemoteAddr:   "10.0.0.1:443",
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36",
	})

	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.IPAddress != "203.0.113.9" {
		t.Fatalf("expected first forwarded-for entry, got %q", rec.IPAddress)
	}
	if rec.Country != "Bangladesh" || rec.CountryCode != "BD" || rec.ISP != "Example ISP" {
		t.Fatalf("unexpected geo fields: %+v", rec)
	}
	if rec.Browser != BrowserChrome || rec.OS != OSWindows {
		t.Fatalf("unexpected classification: %s/%s", rec.Browser, rec.OS)
	}
	if !rec.VisitedAt.Equal(now) {
		t.Fatalf("unexpected visitedAt %v", rec.VisitedAt)
	}
	if rec.ID == "" {
		t.Fatalf("expected record id")
	}
}

func TestRecordSurvivesGeoFailure(t *testing.T) {
	repo := NewMemoryRepo()
	r := NewRecorder(repo, stubGeo{err: errors.New("connection refused")})

	r.Record(context.Background(), RequestInfo{RemoteAddr: "203.0.113.9:12345", UserAgent: "curl/8.4.0"})

	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected record despite geo failure, got %d", len(recs))
	}
	if recs[0].Country != "Unknown" {
		t.Fatalf("expected Unknown country, got %q", recs[0].Country)
	}
	if recs[0].City != "" || recs[0].ISP != "" {
		t.Fatalf("expected empty optional geo fields, got %+v", recs[0])
	}
}

func TestRecordSwallowsStoreFailure(t *testing.T) {
	repo := NewMemoryRepo()
	repo.FailInserts(errors.New("connection reset"))
	r := NewRecorder(repo, stubGeo{})

	// Must not panic or surface anything.
	r.Record(context.Background(), RequestInfo{RemoteAddr: "203.0.113.9:1", UserAgent: "x"})

	if n := len(repo.Records()); n != 0 {
		t.Fatalf("expected no record, got %d", n)
	}
}

func TestRecordNilGeoClient(t *testing.T) {
	repo := NewMemoryRepo()
	r := NewRecorder(repo, nil)

	r.Record(context.Background(), RequestInfo{RemoteAddr: "203.0.113.9:1"})

	recs := repo.Records()
	if len(recs) != 1 || recs[0].Country != "Unknown" {
		t.Fatalf("expected Unknown record, got %+v", recs)
	}
}

func TestRecordLoopbackPolicy(t *testing.T) {
	// Default: loopback visits are tracked.
	repo := NewMemoryRepo()
	r := NewRecorder(repo, stubGeo{err: errors.New("down")})
	r.Record(context.Background(), RequestInfo{RemoteAddr: "127.0.0.1:9999"})
	if len(repo.Records()) != 1 {
		t.Fatalf("expected loopback visit tracked by default")
	}

	// Opt-out skips loopback, including IPv6.
	repo = NewMemoryRepo()
	r = NewRecorder(repo, stubGeo{}, WithTrackLocal(false))
	r.Record(context.Background(), RequestInfo{RemoteAddr: "127.0.0.1:9999"})
	r.Record(context.Background(), RequestInfo{RemoteAddr: "[::1]:9999"})
	if len(repo.Records()) != 0 {
		t.Fatalf("expected loopback visits skipped, got %d", len(repo.Records()))
	}

	// Non-loopback still recorded under the opt-out.
	r.Record(context.Background(), RequestInfo{RemoteAddr: "203.0.113.9:1"})
	if len(repo.Records()) != 1 {
		t.Fatalf("expected public visit tracked")
	}
}

func TestRecordCapsUserAgent(t *testing.T) {
	repo := NewMemoryRepo()
	r := NewRecorder(repo, stubGeo{})

	r.Record(context.Background(), RequestInfo{
		RemoteAddr: "203.0.113.9:1",
		UserAgent:  strings.Repeat("a", MaxUserAgentLen+100),
	})

	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if len(recs[0].UserAgent) != MaxUserAgentLen {
		t.Fatalf("expected user agent capped at %d, got %d", MaxUserAgentLen, len(recs[0].UserAgent))
	}
}

func TestClientIPFallbacks(t *testing.T) {
	cases := []struct {
		name string
		req  RequestInfo
		want string
	}{
		{"forwarded first entry", RequestInfo{ForwardedFor: " 203.0.113.9 , 10.0.0.1", RemoteAddr: "10.0.0.1:1"}, "203.0.113.9"},
		{"remote addr host", RequestInfo{RemoteAddr: "198.51.100.7:4321"}, "198.51.100.7"},
		{"remote addr without port", RequestInfo{RemoteAddr: "198.51.100.7"}, "198.51.100.7"},
		{"nothing", RequestInfo{}, "127.0.0.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clientIP(tc.req); got != tc.want {
				t.Fatalf("clientIP(%+v) = %q, want %q", tc.req, got, tc.want)
			}
		})
	}
}
