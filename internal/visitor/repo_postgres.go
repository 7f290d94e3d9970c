package visitor

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// PostgresRepo persists visitor records via database/sql (pgx stdlib
// driver). Concurrent appends are safe; rows are independent and never
// updated.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

// EnsureSchema creates the visitors table if it does not exist yet.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS visitors (
	id           UUID PRIMARY KEY,
	ip_address   TEXT NOT NULL,
	country      TEXT NOT NULL DEFAULT '',
	country_code TEXT NOT NULL DEFAULT '',
	city         TEXT NOT NULL DEFAULT '',
	region       TEXT NOT NULL DEFAULT '',
	isp          TEXT NOT NULL DEFAULT '',
	user_agent   TEXT NOT NULL DEFAULT '',
	browser      TEXT NOT NULL DEFAULT '',
	os           TEXT NOT NULL DEFAULT '',
	visited_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS visitors_visited_at_idx ON visitors (visited_at DESC);
`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("visitor schema: %w", err)
	}
	return nil
}

func (r *PostgresRepo) Insert(ctx context.Context, rec Record) error {
	const q = `
INSERT INTO visitors (id, ip_address, country, country_code, city, region, isp, user_agent, browser, os, visited_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.IPAddress, rec.Country, rec.CountryCode, rec.City,
		rec.Region, rec.ISP, rec.UserAgent, rec.Browser, rec.OS, rec.VisitedAt,
	)
	if err != nil {
		return fmt.Errorf("insert visitor: %w", err)
	}
	return nil
}

func (r *PostgresRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count visitors: %w", err)
	}
	return n, nil
}

func (r *PostgresRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitors WHERE visited_at >= $1`, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count visitors since: %w", err)
	}
	return n, nil
}

func (r *PostgresRepo) CountByCountry(ctx context.Context, limit int) ([]CountryCount, error) {
	const q = `
SELECT country, COUNT(*) AS n
FROM visitors
GROUP BY country
ORDER BY n DESC, country ASC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("count by country: %w", err)
	}
	defer rows.Close()

	out := make([]CountryCount, 0, limit)
	for rows.Next() {
		var cc CountryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan country count: %w", err)
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CountByBrowser(ctx context.Context) ([]BucketCount, error) {
	return r.countByColumn(ctx, "browser")
}

func (r *PostgresRepo) CountByOS(ctx context.Context) ([]BucketCount, error) {
	return r.countByColumn(ctx, "os")
}

func (r *PostgresRepo) countByColumn(ctx context.Context, column string) ([]BucketCount, error) {
	// column is one of two compile-time constants, never user input.
	q := fmt.Sprintf(`SELECT %s, COUNT(*) AS n FROM visitors GROUP BY %s ORDER BY n DESC, %s ASC`, column, column, column)
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	out := make([]BucketCount, 0)
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Name, &bc.Count); err != nil {
			return nil, fmt.Errorf("scan %s count: %w", column, err)
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Recent(ctx context.Context, limit int) ([]Record, error) {
	const q = `
SELECT id, ip_address, country, country_code, city, region, isp, user_agent, browser, os, visited_at
FROM visitors
ORDER BY visited_at DESC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visitors: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.IPAddress, &rec.Country, &rec.CountryCode, &rec.City,
			&rec.Region, &rec.ISP, &rec.UserAgent, &rec.Browser, &rec.OS, &rec.VisitedAt,
		); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DailyCounts buckets by calendar day in since's timezone. Bucketing
// happens in Go: to_char on a timestamptz renders in the session
// timezone, which is not guaranteed to match the server process's local
// zone, and the window is only 30 days of a low-traffic site.
func (r *PostgresRepo) DailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT visited_at FROM visitors WHERE visited_at >= $1`, since)
	if err != nil {
		return nil, fmt.Errorf("daily visitors: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var at time.Time
		if err := rows.Scan(&at); err != nil {
			return nil, fmt.Errorf("scan visited_at: %w", err)
		}
		counts[at.In(since.Location()).Format("2006-01-02")]++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, DailyCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
