package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transactor is implemented by stores that can run a unit of work in a
// single transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(Repository) error) error
}

// Seed inserts starter content so a fresh deployment renders something.
// It is a no-op when any project already exists. Against a transactional
// store the inserts commit or roll back as one unit, so a failure never
// leaves a half-seeded database.
func Seed(ctx context.Context, repo Repository) error {
	if tr, ok := repo.(Transactor); ok {
		return tr.InTx(ctx, func(txRepo Repository) error {
			return seedContent(ctx, txRepo)
		})
	}
	return seedContent(ctx, repo)
}

func seedContent(ctx context.Context, repo Repository) error {
	existing, err := repo.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now().UTC()

	if err := repo.CreateProject(ctx, Project{
		ID:               uuid.NewString(),
		Title:            "Portfolio Website",
		ShortDescription: "Personal portfolio with an admin panel",
		Description:      "Full-stack portfolio with seasonal themes, admin panel, and visitor analytics.",
		GithubLink:       "https://github.com/",
		Tags:             TagList{"React", "TypeScript", "Go"},
		CreatedAt:        now,
	}); err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	skills := []Skill{
		{Name: "Go", Category: SkillGoodAt},
		{Name: "React", Category: SkillGoodAt},
		{Name: "PostgreSQL", Category: SkillGoodAt},
		{Name: "TypeScript", Category: SkillKnow},
		{Name: "Docker", Category: SkillKnow},
	}
	for _, s := range skills {
		s.ID = uuid.NewString()
		if err := repo.CreateSkill(ctx, s); err != nil {
			return fmt.Errorf("seed skill: %w", err)
		}
	}

	links := []SocialLink{
		{Platform: "github", URL: "https://github.com/"},
		{Platform: "linkedin", URL: "https://linkedin.com/in/"},
	}
	for _, l := range links {
		l.ID = uuid.NewString()
		if err := repo.CreateSocialLink(ctx, l); err != nil {
			return fmt.Errorf("seed social link: %w", err)
		}
	}

	posts := []BlogPost{
		{Title: "Getting Started", Summary: "First post", Content: "Full article content here...", CreatedAt: now},
	}
	for _, p := range posts {
		p.ID = uuid.NewString()
		if err := repo.CreatePost(ctx, p); err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
	}

	if err := repo.UpsertSetting(ctx, Setting{KeyName: SettingCVLink, Value: DefaultCVLink}); err != nil {
		return fmt.Errorf("seed setting: %w", err)
	}
	return nil
}
