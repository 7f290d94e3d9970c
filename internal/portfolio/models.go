package portfolio

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by repository reads for missing records.
var ErrNotFound = errors.New("portfolio: not found")

// TagList accepts both an array of strings and a single comma-separated
// string on input; admin clients have historically sent both shapes.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = normalizeTags(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = normalizeTags(strings.Split(s, ","))
		return nil
	}
	return errors.New("portfolio: tags must be a string or array of strings")
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Join renders the wire form consumed by the frontend: one comma string.
func (t TagList) Join() string { return strings.Join(t, ",") }

type Project struct {
	ID               string    `json:"id" db:"id"`
	Title            string    `json:"title" db:"title"`
	ShortDescription string    `json:"shortDescription,omitempty" db:"short_description"`
	Description      string    `json:"description,omitempty" db:"description"`
	Image            string    `json:"image,omitempty" db:"image"`
	Images           []string  `json:"images,omitempty" db:"images"`
	LiveLink         string    `json:"liveLink,omitempty" db:"live_link"`
	GithubLink       string    `json:"githubLink,omitempty" db:"github_link"`
	Tags             TagList   `json:"tags,omitempty" db:"tags"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// ProjectResponse is the read shape: tags flattened to a comma string.
type ProjectResponse struct {
	Project
	Tags string `json:"tags"`
}

func (p Project) ToResponse() ProjectResponse {
	return ProjectResponse{Project: p, Tags: p.Tags.Join()}
}

// Skill categories.
const (
	SkillGoodAt = "good_at"
	SkillKnow   = "know"
)

type Skill struct {
	ID       string `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Logo     string `json:"logo,omitempty" db:"logo"`
	Category string `json:"category" db:"category"`
}

// Validate enforces the fixed category enumeration.
func (s Skill) Validate() error {
	if s.Name == "" {
		return errors.New("portfolio: skill name is required")
	}
	if s.Category != SkillGoodAt && s.Category != SkillKnow {
		return errors.New("portfolio: skill category must be good_at or know")
	}
	return nil
}

type Experience struct {
	ID           string `json:"id" db:"id"`
	Title        string `json:"title" db:"title"`
	Organization string `json:"organization" db:"organization"`
	StartDate    string `json:"startDate,omitempty" db:"start_date"`
	EndDate      string `json:"endDate,omitempty" db:"end_date"`
	Description  string `json:"description,omitempty" db:"description"`
}

type BlogPost struct {
	ID         string    `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Summary    string    `json:"summary,omitempty" db:"summary"`
	Content    string    `json:"content,omitempty" db:"content"`
	CoverImage string    `json:"coverImage,omitempty" db:"cover_image"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// PostSummary is the public list shape: no full content.
type PostSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (p BlogPost) ToSummary() PostSummary {
	return PostSummary{
		ID:         p.ID,
		Title:      p.Title,
		Summary:    p.Summary,
		CoverImage: p.CoverImage,
		CreatedAt:  p.CreatedAt,
	}
}

type SocialLink struct {
	ID       string `json:"id" db:"id"`
	Platform string `json:"platform" db:"platform"`
	URL      string `json:"url" db:"url"`
	Icon     string `json:"icon,omitempty" db:"icon"`
}

type Message struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (m Message) Validate() error {
	if m.Name == "" || m.Email == "" || m.Message == "" {
		return errors.New("portfolio: name, email and message are required")
	}
	return nil
}

type Setting struct {
	KeyName string `json:"keyName" db:"key_name"`
	Value   string `json:"value" db:"value"`
}

// SettingCVLink is the one setting the public payload reads.
const SettingCVLink = "cvLink"

// DefaultCVLink is served when no cvLink setting exists.
const DefaultCVLink = "/cv.pdf"
