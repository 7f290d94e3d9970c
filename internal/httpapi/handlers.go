package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/config"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/upload"
	"portfolio-api/internal/visitor"
	"portfolio-api/pkg/logger"
	"portfolio-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth  *auth.Manager
	Admin config.AuthConfig

	Repo      portfolio.Repository
	Recorder  *visitor.Recorder
	Analytics *visitor.Analytics
	Uploads   *upload.Storage

	// Cache is optional; with no Redis the portfolio payload is rebuilt
	// per request.
	Cache *redis.Client
}

const (
	portfolioCacheKey = "cache:portfolio"
	portfolioCacheTTL = time.Minute
)

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login checks the configured admin credential and issues a token.
// Wrong username and wrong password return the same body so the
// response does not reveal which half failed.
func (h Handlers) Login(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !h.credentialsOK(req.Username, req.Password) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	token, err := h.Auth.Issue(time.Now(), req.Username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// decoyHash keeps the bcrypt cost on the username-mismatch path, so
// wrong-username and wrong-password attempts take comparable time.
var decoyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)

func (h Handlers) credentialsOK(username, password string) bool {
	usernameOK := username != "" && username == h.Admin.AdminUsername

	if h.Admin.AdminPasswordHash != "" {
		hash := []byte(h.Admin.AdminPasswordHash)
		if !usernameOK {
			hash = decoyHash
		}
		passwordOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
		return usernameOK && passwordOK
	}
	// Dev-only plaintext fallback; Validate rejects this in production.
	return usernameOK && h.Admin.AdminPassword != "" && password == h.Admin.AdminPassword
}

// --- Public portfolio ---

// Portfolio serves the combined public payload. Visitor tracking is
// detached before the payload is built: the response must come back
// identical whether tracking succeeds, fails or hangs.
func (h Handlers) Portfolio(c *gin.Context) {
	if h.Recorder != nil {
		info := visitor.RequestInfo{
			ForwardedFor: c.GetHeader("X-Forwarded-For"),
			RemoteAddr:   c.Request.RemoteAddr,
			UserAgent:    c.GetHeader("User-Agent"),
		}
		go h.Recorder.Record(context.Background(), info)
	}

	ctx := c.Request.Context()
	if h.Cache != nil {
		var cached portfolio.Payload
		if err := utils.CacheGetJSON(ctx, h.Cache, portfolioCacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	payload, err := portfolio.BuildPayload(ctx, h.Repo)
	if err != nil {
		logger.FromGin(c).Error("portfolio payload build failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if h.Cache != nil {
		if err := utils.CacheSetJSON(ctx, h.Cache, portfolioCacheKey, payload, portfolioCacheTTL); err != nil {
			logger.FromGin(c).Debug("portfolio cache set failed", "err", err)
		}
	}
	c.JSON(http.StatusOK, payload)
}

// invalidatePortfolioCache drops the cached payload after an admin
// write. Failure only delays freshness by one TTL, so it is logged and
// ignored.
func (h Handlers) invalidatePortfolioCache(c *gin.Context) {
	if h.Cache == nil {
		return
	}
	if err := utils.CacheDelete(c.Request.Context(), h.Cache, portfolioCacheKey); err != nil {
		logger.FromGin(c).Debug("portfolio cache invalidation failed", "err", err)
	}
}

func (h Handlers) GetProject(c *gin.Context) {
	p, err := h.Repo.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, p.ToResponse())
}

func (h Handlers) GetPost(c *gin.Context) {
	p, err := h.Repo.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateMessage accepts the public contact form.
func (h Handlers) CreateMessage(c *gin.Context) {
	var m portfolio.Message
	if err := c.ShouldBindJSON(&m); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := m.Validate(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}
	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	if err := h.Repo.CreateMessage(c.Request.Context(), m); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// --- Admin: analytics ---

func (h Handlers) AdminAnalytics(c *gin.Context) {
	if h.Analytics == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "analytics not configured"})
		return
	}
	report, err := h.Analytics.Summarize(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("analytics summary failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- Admin: projects ---

func (h Handlers) ListProjects(c *gin.Context) {
	projects, err := h.Repo.ListProjects(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	out := make([]portfolio.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ToResponse())
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) CreateProject(c *gin.Context) {
	var p portfolio.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if p.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if err := h.Repo.CreateProject(c.Request.Context(), p); err != nil {
		respondStoreError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusCreated, p.ToResponse())
}

func (h Handlers) UpdateProject(c *gin.Context) {
	var p portfolio.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p.ID = c.Param("id")
	if err := h.Repo.UpdateProject(c.Request.Context(), p); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, p.ToResponse())
}

func (h Handlers) DeleteProject(c *gin.Context) {
	if err := h.Repo.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- Admin: skills ---

func (h Handlers) ListSkills(c *gin.Context) {
	skills, err := h.Repo.ListSkills(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (h Handlers) CreateSkill(c *gin.Context) {
	var s portfolio.Skill
	if err := c.ShouldBindJSON(&s); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := s.Validate(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.ID = uuid.NewString()
	if err := h.Repo.CreateSkill(c.Request.Context(), s); err != nil {
		respondStoreError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusCreated, s)
}

func (h Handlers) UpdateSkill(c *gin.Context) {
	var s portfolio.Skill
	if err := c.ShouldBindJSON(&s); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s.ID = c.Param("id")
	if err := s.Validate(); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Repo.UpdateSkill(c.Request.Context(), s); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, s)
}

func (h Handlers) DeleteSkill(c *gin.Context) {
	if err := h.Repo.DeleteSkill(c.Request.Context(), c.Param("id")); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- Admin: experiences ---

func (h Handlers) ListExperiences(c *gin.Context) {
	exps, err := h.Repo.ListExperiences(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, exps)
}

func (h Handlers) CreateExperience(c *gin.Context) {
	var e portfolio.Experience
	if err := c.ShouldBindJSON(&e); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if e.Title == "" || e.Organization == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title and organization are required"})
		return
	}
	e.ID = uuid.NewString()
	if err := h.Repo.CreateExperience(c.Request.Context(), e); err != nil {
		respondStoreError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusCreated, e)
}

func (h Handlers) UpdateExperience(c *gin.Context) {
	var e portfolio.Experience
	if err := c.ShouldBindJSON(&e); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	e.ID = c.Param("id")
	if err := h.Repo.UpdateExperience(c.Request.Context(), e); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, e)
}

func (h Handlers) DeleteExperience(c *gin.Context) {
	if err := h.Repo.DeleteExperience(c.Request.Context(), c.Param("id")); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- Admin: posts ---

func (h Handlers) ListPosts(c *gin.Context) {
	posts, err := h.Repo.ListPosts(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h Handlers) CreatePost(c *gin.Context) {
	var p portfolio.BlogPost
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if p.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	if err := h.Repo.CreatePost(c.Request.Context(), p); err != nil {
		respondStoreError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusCreated, p)
}

func (h Handlers) UpdatePost(c *gin.Context) {
	var p portfolio.BlogPost
	if err := c.ShouldBindJSON(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p.ID = c.Param("id")
	if err := h.Repo.UpdatePost(c.Request.Context(), p); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, p)
}

func (h Handlers) DeletePost(c *gin.Context) {
	if err := h.Repo.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- Admin: social links ---

func (h Handlers) ListSocialLinks(c *gin.Context) {
	links, err := h.Repo.ListSocialLinks(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h Handlers) CreateSocialLink(c *gin.Context) {
	var l portfolio.SocialLink
	if err := c.ShouldBindJSON(&l); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if l.Platform == "" || l.URL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "platform and url are required"})
		return
	}
	l.ID = uuid.NewString()
	if err := h.Repo.CreateSocialLink(c.Request.Context(), l); err != nil {
		respondStoreError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusCreated, l)
}

func (h Handlers) UpdateSocialLink(c *gin.Context) {
	var l portfolio.SocialLink
	if err := c.ShouldBindJSON(&l); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	l.ID = c.Param("id")
	if err := h.Repo.UpdateSocialLink(c.Request.Context(), l); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, l)
}

func (h Handlers) DeleteSocialLink(c *gin.Context) {
	if err := h.Repo.DeleteSocialLink(c.Request.Context(), c.Param("id")); err != nil {
		respondLookupError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- Admin: messages ---

func (h Handlers) ListMessages(c *gin.Context) {
	msgs, err := h.Repo.ListMessages(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h Handlers) DeleteMessage(c *gin.Context) {
	if err := h.Repo.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		respondLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// --- Admin: settings ---

func (h Handlers) ListSettings(c *gin.Context) {
	settings, err := h.Repo.ListSettings(c.Request.Context())
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type settingValueRequest struct {
	Value string `json:"value"`
}

func (h Handlers) UpsertSetting(c *gin.Context) {
	var req settingValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	s := portfolio.Setting{KeyName: c.Param("key"), Value: req.Value}
	if s.KeyName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}
	if err := h.Repo.UpsertSetting(c.Request.Context(), s); err != nil {
		respondStoreError(c, err)
		return
	}
	h.invalidatePortfolioCache(c)
	c.JSON(http.StatusOK, s)
}

// --- Admin: uploads ---

// Upload stores a multipart file under a generated name and returns
// the public URL it will be served from.
func (h Handlers) Upload(c *gin.Context) {
	if h.Uploads == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "uploads not configured"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "No file"})
		return
	}
	defer f.Close()

	name, err := h.Uploads.Save(f, fileHeader.Filename)
	if err != nil {
		logger.FromGin(c).Error("upload save failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + name})
}

// --- shared responses ---

// respondLookupError maps a missing row to 404 and everything else to a
// generic 500 so store internals never leak to clients.
func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, portfolio.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	respondStoreError(c, err)
}

func respondStoreError(c *gin.Context, err error) {
	logger.FromGin(c).Error("store operation failed", "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
