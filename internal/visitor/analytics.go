package visitor

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	topCountries    = 10
	recentLimit     = 20
	dailyWindowDays = 30
)

// Analytics computes the dashboard report over the visitor store. All
// queries are read-only and independent, so they fan out concurrently;
// the first store error fails the whole report.
type Analytics struct {
	repo  Repository
	clock func() time.Time
}

type AnalyticsOption func(*Analytics)

// WithAnalyticsClock injects a time source (tests).
func WithAnalyticsClock(clock func() time.Time) AnalyticsOption {
	return func(a *Analytics) { a.clock = clock }
}

func NewAnalytics(repo Repository, opts ...AnalyticsOption) *Analytics {
	a := &Analytics{repo: repo, clock: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Summarize builds the combined report.
//
// "Today" means the current calendar date in server local time. Daily
// buckets cover the trailing 30 calendar days including today; days
// without traffic are omitted, not zero-filled.
func (a *Analytics) Summarize(ctx context.Context) (Report, error) {
	if a.repo == nil {
		return Report{}, errors.New("visitor: repository not configured")
	}

	now := a.clock()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dailySince := startOfToday.AddDate(0, 0, -(dailyWindowDays - 1))

	var out Report
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := a.repo.CountAll(gctx)
		out.Total = n
		return err
	})
	g.Go(func() error {
		n, err := a.repo.CountSince(gctx, startOfToday)
		out.Today = n
		return err
	})
	g.Go(func() error {
		rows, err := a.repo.CountByCountry(gctx, topCountries)
		out.ByCountry = rows
		return err
	})
	g.Go(func() error {
		rows, err := a.repo.CountByBrowser(gctx)
		out.ByBrowser = rows
		return err
	})
	g.Go(func() error {
		rows, err := a.repo.CountByOS(gctx)
		out.ByOS = rows
		return err
	})
	g.Go(func() error {
		rows, err := a.repo.Recent(gctx, recentLimit)
		out.Recent = rows
		return err
	})
	g.Go(func() error {
		rows, err := a.repo.DailyCounts(gctx, dailySince)
		out.Daily = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return out, nil
}
