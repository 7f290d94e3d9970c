package portfolio

import "context"

// Repository is the thin persistence contract for portfolio content.
// These are deliberately plain CRUD wrappers; no business logic lives
// behind them.

type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	CreateProject(ctx context.Context, p Project) error
	UpdateProject(ctx context.Context, p Project) error
	DeleteProject(ctx context.Context, id string) error
}

type SkillRepository interface {
	ListSkills(ctx context.Context) ([]Skill, error)
	CreateSkill(ctx context.Context, s Skill) error
	UpdateSkill(ctx context.Context, s Skill) error
	DeleteSkill(ctx context.Context, id string) error
}

type ExperienceRepository interface {
	ListExperiences(ctx context.Context) ([]Experience, error)
	CreateExperience(ctx context.Context, e Experience) error
	UpdateExperience(ctx context.Context, e Experience) error
	DeleteExperience(ctx context.Context, id string) error
}

type PostRepository interface {
	ListPosts(ctx context.Context) ([]BlogPost, error)
	GetPost(ctx context.Context, id string) (BlogPost, error)
	CreatePost(ctx context.Context, p BlogPost) error
	UpdatePost(ctx context.Context, p BlogPost) error
	DeletePost(ctx context.Context, id string) error
}

type SocialLinkRepository interface {
	ListSocialLinks(ctx context.Context) ([]SocialLink, error)
	CreateSocialLink(ctx context.Context, l SocialLink) error
	UpdateSocialLink(ctx context.Context, l SocialLink) error
	DeleteSocialLink(ctx context.Context, id string) error
}

type MessageRepository interface {
	ListMessages(ctx context.Context) ([]Message, error)
	CreateMessage(ctx context.Context, m Message) error
	DeleteMessage(ctx context.Context, id string) error
}

type SettingRepository interface {
	ListSettings(ctx context.Context) ([]Setting, error)
	GetSetting(ctx context.Context, key string) (Setting, error)
	UpsertSetting(ctx context.Context, s Setting) error
}

// Repository bundles every content store the API needs.
type Repository interface {
	ProjectRepository
	SkillRepository
	ExperienceRepository
	PostRepository
	SocialLinkRepository
	MessageRepository
	SettingRepository
}
