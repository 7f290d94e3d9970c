package portfolio

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"portfolio-api/pkg/utils"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so every repo
// method works identically inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresRepo persists portfolio content via database/sql (pgx stdlib
// driver). Tags and image lists are stored as JSONB so the driver stays
// on plain string scanning.
type PostgresRepo struct {
	db *sql.DB
	q  querier
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db, q: db} }

// InTx runs fn against a repo bound to a single transaction. The whole
// unit of work commits or rolls back together. Not reentrant.
func (r *PostgresRepo) InTx(ctx context.Context, fn func(Repository) error) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		return fn(&PostgresRepo{db: r.db, q: tx})
	})
}

// EnsureSchema creates the content tables if they do not exist yet.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS projects (
	id                UUID PRIMARY KEY,
	title             TEXT NOT NULL,
	short_description TEXT NOT NULL DEFAULT '',
	description       TEXT NOT NULL DEFAULT '',
	image             TEXT NOT NULL DEFAULT '',
	images            JSONB NOT NULL DEFAULT '[]',
	live_link         TEXT NOT NULL DEFAULT '',
	github_link       TEXT NOT NULL DEFAULT '',
	tags              JSONB NOT NULL DEFAULT '[]',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS skills (
	id       UUID PRIMARY KEY,
	name     TEXT NOT NULL,
	logo     TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS experiences (
	id           UUID PRIMARY KEY,
	title        TEXT NOT NULL,
	organization TEXT NOT NULL,
	start_date   TEXT NOT NULL DEFAULT '',
	end_date     TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS posts (
	id          UUID PRIMARY KEY,
	title       TEXT NOT NULL,
	summary     TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL DEFAULT '',
	cover_image TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS social_links (
	id       UUID PRIMARY KEY,
	platform TEXT NOT NULL,
	url      TEXT NOT NULL,
	icon     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS messages (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS settings (
	key_name TEXT PRIMARY KEY,
	value    TEXT NOT NULL DEFAULT ''
);
`
	if _, err := r.q.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("portfolio schema: %w", err)
	}
	return nil
}

func marshalList(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

/* ----- projects ----- */

const projectColumns = `id, title, short_description, description, image, images, live_link, github_link, tags, created_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	var images, tags []byte
	err := row.Scan(&p.ID, &p.Title, &p.ShortDescription, &p.Description, &p.Image,
		&images, &p.LiveLink, &p.GithubLink, &tags, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, fmt.Errorf("scan project: %w", err)
	}
	if err := json.Unmarshal(images, &p.Images); err != nil {
		return Project{}, fmt.Errorf("decode project images: %w", err)
	}
	var tagList []string
	if err := json.Unmarshal(tags, &tagList); err != nil {
		return Project{}, fmt.Errorf("decode project tags: %w", err)
	}
	p.Tags = TagList(tagList)
	return p, nil
}

func (r *PostgresRepo) ListProjects(ctx context.Context) ([]Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetProject(ctx context.Context, id string) (Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.q.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) CreateProject(ctx context.Context, p Project) error {
	images, err := marshalList(p.Images)
	if err != nil {
		return err
	}
	tags, err := marshalList(p.Tags)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO projects (id, title, short_description, description, image, images, live_link, github_link, tags, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.q.ExecContext(ctx, q, p.ID, p.Title, p.ShortDescription, p.Description,
		p.Image, images, p.LiveLink, p.GithubLink, tags, p.CreatedAt); err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

func (r *PostgresRepo) UpdateProject(ctx context.Context, p Project) error {
	images, err := marshalList(p.Images)
	if err != nil {
		return err
	}
	tags, err := marshalList(p.Tags)
	if err != nil {
		return err
	}
	const q = `
UPDATE projects
SET title = $2, short_description = $3, description = $4, image = $5, images = $6,
    live_link = $7, github_link = $8, tags = $9
WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, p.ID, p.Title, p.ShortDescription, p.Description,
		p.Image, images, p.LiveLink, p.GithubLink, tags)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepo) DeleteProject(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(res)
}

/* ----- skills ----- */

func (r *PostgresRepo) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, logo, category FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	out := make([]Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Logo, &s.Category); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateSkill(ctx context.Context, s Skill) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO skills (id, name, logo, category) VALUES ($1, $2, $3, $4)`,
		s.ID, s.Name, s.Logo, s.Category)
	if err != nil {
		return fmt.Errorf("create skill: %w", err)
	}
	return nil
}

func (r *PostgresRepo) UpdateSkill(ctx context.Context, s Skill) error {
	res, err := r.q.ExecContext(ctx, `UPDATE skills SET name = $2, logo = $3, category = $4 WHERE id = $1`,
		s.ID, s.Name, s.Logo, s.Category)
	if err != nil {
		return fmt.Errorf("update skill: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepo) DeleteSkill(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return requireRow(res)
}

/* ----- experiences ----- */

func (r *PostgresRepo) ListExperiences(ctx context.Context) ([]Experience, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, title, organization, start_date, end_date, description FROM experiences`)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	out := make([]Experience, 0)
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.Title, &e.Organization, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateExperience(ctx context.Context, e Experience) error {
	const q = `INSERT INTO experiences (id, title, organization, start_date, end_date, description)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.ExecContext(ctx, q, e.ID, e.Title, e.Organization, e.StartDate, e.EndDate, e.Description); err != nil {
		return fmt.Errorf("create experience: %w", err)
	}
	return nil
}

func (r *PostgresRepo) UpdateExperience(ctx context.Context, e Experience) error {
	const q = `UPDATE experiences SET title = $2, organization = $3, start_date = $4, end_date = $5, description = $6 WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, e.ID, e.Title, e.Organization, e.StartDate, e.EndDate, e.Description)
	if err != nil {
		return fmt.Errorf("update experience: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepo) DeleteExperience(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return requireRow(res)
}

/* ----- posts ----- */

func (r *PostgresRepo) ListPosts(ctx context.Context) ([]BlogPost, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, title, summary, content, cover_image, created_at FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]BlogPost, 0)
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.CoverImage, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetPost(ctx context.Context, id string) (BlogPost, error) {
	var p BlogPost
	err := r.q.QueryRowContext(ctx,
		`SELECT id, title, summary, content, cover_image, created_at FROM posts WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &p.CoverImage, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *PostgresRepo) CreatePost(ctx context.Context, p BlogPost) error {
	const q = `INSERT INTO posts (id, title, summary, content, cover_image, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.ExecContext(ctx, q, p.ID, p.Title, p.Summary, p.Content, p.CoverImage, p.CreatedAt); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostgresRepo) UpdatePost(ctx context.Context, p BlogPost) error {
	const q = `UPDATE posts SET title = $2, summary = $3, content = $4, cover_image = $5 WHERE id = $1`
	res, err := r.q.ExecContext(ctx, q, p.ID, p.Title, p.Summary, p.Content, p.CoverImage)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepo) DeletePost(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireRow(res)
}

/* ----- social links ----- */

func (r *PostgresRepo) ListSocialLinks(ctx context.Context) ([]SocialLink, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, platform, url, icon FROM social_links`)
	if err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	defer rows.Close()

	out := make([]SocialLink, 0)
	for rows.Next() {
		var l SocialLink
		if err := rows.Scan(&l.ID, &l.Platform, &l.URL, &l.Icon); err != nil {
			return nil, fmt.Errorf("scan social link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateSocialLink(ctx context.Context, l SocialLink) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO social_links (id, platform, url, icon) VALUES ($1, $2, $3, $4)`,
		l.ID, l.Platform, l.URL, l.Icon)
	if err != nil {
		return fmt.Errorf("create social link: %w", err)
	}
	return nil
}

func (r *PostgresRepo) UpdateSocialLink(ctx context.Context, l SocialLink) error {
	res, err := r.q.ExecContext(ctx, `UPDATE social_links SET platform = $2, url = $3, icon = $4 WHERE id = $1`,
		l.ID, l.Platform, l.URL, l.Icon)
	if err != nil {
		return fmt.Errorf("update social link: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepo) DeleteSocialLink(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM social_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete social link: %w", err)
	}
	return requireRow(res)
}

/* ----- messages ----- */

func (r *PostgresRepo) ListMessages(ctx context.Context) ([]Message, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, email, message, created_at FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateMessage(ctx context.Context, m Message) error {
	const q = `INSERT INTO messages (id, name, email, message, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.ExecContext(ctx, q, m.ID, m.Name, m.Email, m.Message, m.CreatedAt); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *PostgresRepo) DeleteMessage(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireRow(res)
}

/* ----- settings ----- */

func (r *PostgresRepo) ListSettings(ctx context.Context) ([]Setting, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT key_name, value FROM settings ORDER BY key_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := make([]Setting, 0)
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.KeyName, &s.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetSetting(ctx context.Context, key string) (Setting, error) {
	var s Setting
	err := r.q.QueryRowContext(ctx, `SELECT key_name, value FROM settings WHERE key_name = $1`, key).
		Scan(&s.KeyName, &s.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return Setting{}, ErrNotFound
	}
	if err != nil {
		return Setting{}, fmt.Errorf("get setting: %w", err)
	}
	return s, nil
}

func (r *PostgresRepo) UpsertSetting(ctx context.Context, s Setting) error {
	const q = `
INSERT INTO settings (key_name, value) VALUES ($1, $2)
ON CONFLICT (key_name) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.q.ExecContext(ctx, q, s.KeyName, s.Value); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
