package visitor

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory visitor store for tests and early
// development. Aggregations mirror the SQL implementation: counts sort
// descending with ties broken by ascending name, daily buckets use the
// record's local calendar date.
type MemoryRepo struct {
	mu      sync.Mutex
	records []Record

	// insertErr, when set, makes Insert fail (tests the silent-fail path).
	insertErr error
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

// FailInserts makes subsequent Insert calls return err.
func (r *MemoryRepo) FailInserts(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertErr = err
}

func (r *MemoryRepo) Insert(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.records = append(r.records, rec)
	return nil
}

// Records returns a copy of everything stored.
func (r *MemoryRepo) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *MemoryRepo) CountAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}

func (r *MemoryRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.records {
		if !rec.VisitedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) CountByCountry(ctx context.Context, limit int) ([]CountryCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int{}
	for _, rec := range r.records {
		counts[rec.Country]++
	}
	out := make([]CountryCount, 0, len(counts))
	for country, n := range counts {
		out = append(out, CountryCount{Country: country, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) CountByBrowser(ctx context.Context) ([]BucketCount, error) {
	return r.countByBucket(func(rec Record) string { return rec.Browser }), nil
}

func (r *MemoryRepo) CountByOS(ctx context.Context) ([]BucketCount, error) {
	return r.countByBucket(func(rec Record) string { return rec.OS }), nil
}

func (r *MemoryRepo) countByBucket(key func(Record) string) []BucketCount {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int{}
	for _, rec := range r.records {
		counts[key(rec)]++
	}
	out := make([]BucketCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, BucketCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VisitedAt.After(out[j].VisitedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) DailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[string]int{}
	for _, rec := range r.records {
		if rec.VisitedAt.Before(since) {
			continue
		}
		day := rec.VisitedAt.In(since.Location()).Format("2006-01-02")
		counts[day]++
	}
	out := make([]DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
