package portfolio

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory content store for tests and early
// development. Listing orders mirror the Postgres implementation:
// projects and messages newest-first, everything else insertion order.
type MemoryRepo struct {
	mu sync.Mutex

	projects    []Project
	skills      []Skill
	experiences []Experience
	posts       []BlogPost
	socialLinks []SocialLink
	messages    []Message
	settings    map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{settings: map[string]string{}}
}

/* ----- projects ----- */

func (r *MemoryRepo) ListProjects(ctx context.Context) ([]Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) GetProject(ctx context.Context, id string) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, ErrNotFound
}

func (r *MemoryRepo) CreateProject(ctx context.Context, p Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = append(r.projects, p)
	return nil
}

func (r *MemoryRepo) UpdateProject(ctx context.Context, p Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == p.ID {
			r.projects[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteProject(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.projects {
		if r.projects[i].ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ----- skills ----- */

func (r *MemoryRepo) ListSkills(ctx context.Context) ([]Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Skill, len(r.skills))
	copy(out, r.skills)
	return out, nil
}

func (r *MemoryRepo) CreateSkill(ctx context.Context, s Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skills = append(r.skills, s)
	return nil
}

func (r *MemoryRepo) UpdateSkill(ctx context.Context, s Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.skills {
		if r.skills[i].ID == s.ID {
			r.skills[i] = s
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteSkill(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.skills {
		if r.skills[i].ID == id {
			r.skills = append(r.skills[:i], r.skills[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ----- experiences ----- */

func (r *MemoryRepo) ListExperiences(ctx context.Context) ([]Experience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Experience, len(r.experiences))
	copy(out, r.experiences)
	return out, nil
}

func (r *MemoryRepo) CreateExperience(ctx context.Context, e Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.experiences = append(r.experiences, e)
	return nil
}

func (r *MemoryRepo) UpdateExperience(ctx context.Context, e Experience) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.experiences {
		if r.experiences[i].ID == e.ID {
			r.experiences[i] = e
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteExperience(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.experiences {
		if r.experiences[i].ID == id {
			r.experiences = append(r.experiences[:i], r.experiences[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ----- posts ----- */

func (r *MemoryRepo) ListPosts(ctx context.Context) ([]BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BlogPost, len(r.posts))
	copy(out, r.posts)
	return out, nil
}

func (r *MemoryRepo) GetPost(ctx context.Context, id string) (BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

func (r *MemoryRepo) CreatePost(ctx context.Context, p BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, p)
	return nil
}

func (r *MemoryRepo) UpdatePost(ctx context.Context, p BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == p.ID {
			r.posts[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeletePost(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ----- social links ----- */

func (r *MemoryRepo) ListSocialLinks(ctx context.Context) ([]SocialLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SocialLink, len(r.socialLinks))
	copy(out, r.socialLinks)
	return out, nil
}

func (r *MemoryRepo) CreateSocialLink(ctx context.Context, l SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.socialLinks = append(r.socialLinks, l)
	return nil
}

func (r *MemoryRepo) UpdateSocialLink(ctx context.Context, l SocialLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.socialLinks {
		if r.socialLinks[i].ID == l.ID {
			r.socialLinks[i] = l
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepo) DeleteSocialLink(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.socialLinks {
		if r.socialLinks[i].ID == id {
			r.socialLinks = append(r.socialLinks[:i], r.socialLinks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ----- messages ----- */

func (r *MemoryRepo) ListMessages(ctx context.Context) ([]Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) CreateMessage(ctx context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

func (r *MemoryRepo) DeleteMessage(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

/* ----- settings ----- */

func (r *MemoryRepo) ListSettings(ctx context.Context) ([]Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Setting, 0, len(r.settings))
	for k, v := range r.settings {
		out = append(out, Setting{KeyName: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyName < out[j].KeyName })
	return out, nil
}

func (r *MemoryRepo) GetSetting(ctx context.Context, key string) (Setting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.settings[key]
	if !ok {
		return Setting{}, ErrNotFound
	}
	return Setting{KeyName: key, Value: v}, nil
}

func (r *MemoryRepo) UpsertSetting(ctx context.Context, s Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[s.KeyName] = s.Value
	return nil
}
