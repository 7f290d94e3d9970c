package portfolio

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Payload is the combined public portfolio response.
type Payload struct {
	SocialLinks []SocialLink      `json:"socialLinks"`
	Projects    []ProjectResponse `json:"projects"`
	Skills      []Skill           `json:"skills"`
	Posts       []PostSummary     `json:"posts"`
	Experiences []Experience      `json:"experiences"`
	CVLink      string            `json:"cvLink"`
}

// BuildPayload assembles the public payload. The reads are independent
// and fan out concurrently. A missing cvLink setting falls back to the
// default; any other store failure fails the whole payload.
func BuildPayload(ctx context.Context, repo Repository) (Payload, error) {
	var out Payload
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		links, err := repo.ListSocialLinks(gctx)
		out.SocialLinks = links
		return err
	})
	g.Go(func() error {
		projects, err := repo.ListProjects(gctx)
		if err != nil {
			return err
		}
		out.Projects = make([]ProjectResponse, 0, len(projects))
		for _, p := range projects {
			out.Projects = append(out.Projects, p.ToResponse())
		}
		return nil
	})
	g.Go(func() error {
		skills, err := repo.ListSkills(gctx)
		out.Skills = skills
		return err
	})
	g.Go(func() error {
		posts, err := repo.ListPosts(gctx)
		if err != nil {
			return err
		}
		out.Posts = make([]PostSummary, 0, len(posts))
		for _, p := range posts {
			out.Posts = append(out.Posts, p.ToSummary())
		}
		return nil
	})
	g.Go(func() error {
		exps, err := repo.ListExperiences(gctx)
		out.Experiences = exps
		return err
	})
	g.Go(func() error {
		setting, err := repo.GetSetting(gctx, SettingCVLink)
		if err != nil {
			// Only a missing setting falls back; a failing settings
			// store fails the whole payload like any other read.
			if errors.Is(err, ErrNotFound) {
				out.CVLink = DefaultCVLink
				return nil
			}
			return err
		}
		if setting.Value == "" {
			out.CVLink = DefaultCVLink
			return nil
		}
		out.CVLink = setting.Value
		return nil
	})

	if err := g.Wait(); err != nil {
		return Payload{}, err
	}
	return out, nil
}
