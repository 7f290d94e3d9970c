package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-api/internal/auth"
	"portfolio-api/internal/config"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/upload"
	"portfolio-api/internal/visitor"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router   *gin.Engine
	handlers Handlers
	content  *portfolio.MemoryRepo
	visitors *visitor.MemoryRepo
	manager  *auth.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	authCfg := config.AuthConfig{
		JWTSecret:         "test-secret",
		TokenTTL:          7 * 24 * time.Hour,
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	}
	manager, err := auth.NewManager(authCfg)
	if err != nil {
		t.Fatalf("auth manager: %v", err)
	}

	content := portfolio.NewMemoryRepo()
	visitors := visitor.NewMemoryRepo()
	uploads, err := upload.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}

	h := Handlers{
		Auth:      manager,
		Admin:     authCfg,
		Repo:      content,
		Recorder:  visitor.NewRecorder(visitors, nil),
		Analytics: visitor.NewAnalytics(visitors),
		Uploads:   uploads,
	}

	r := gin.New()
	adminMW := auth.RequireAdmin(manager)
	api := r.Group("/api")
	api.GET("/portfolio", h.Portfolio)
	api.GET("/projects/:id", h.GetProject)
	api.GET("/posts/:id", h.GetPost)
	api.POST("/messages", h.CreateMessage)
	api.POST("/login", h.Login)
	admin := api.Group("/admin", adminMW)
	admin.GET("/analytics", h.AdminAnalytics)
	admin.POST("/projects", h.CreateProject)
	admin.PUT("/projects/:id", h.UpdateProject)
	admin.DELETE("/projects/:id", h.DeleteProject)
	admin.GET("/messages", h.ListMessages)
	admin.PUT("/settings/:key", h.UpsertSetting)
	api.POST("/upload", adminMW, h.Upload)

	return &testEnv{router: r, handlers: h, content: content, visitors: visitors, manager: manager}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, err := e.manager.Issue(time.Now(), "admin")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func jsonReq(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPortfolioServesPayloadAndTracks(t *testing.T) {
	env := newTestEnv(t)
	if err := portfolio.Seed(context.Background(), env.content); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.RemoteAddr = "203.0.113.9:51412"
	req.Header.Set("User-Agent", "Mozilla/5.0 Chrome/120.0")
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var payload portfolio.Payload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Projects) == 0 || len(payload.Skills) == 0 {
		t.Fatalf("expected seeded payload, got %+v", payload)
	}
	if payload.CVLink == "" {
		t.Fatalf("expected cvLink in payload")
	}

	// Tracking is detached; give the goroutine a moment.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if recs := env.visitors.Records(); len(recs) == 1 {
			if recs[0].Browser != visitor.BrowserChrome {
				t.Fatalf("browser = %q", recs[0].Browser)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("visit was never recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPortfolioUnaffectedByTrackingFailure(t *testing.T) {
	env := newTestEnv(t)
	env.visitors.FailInserts(errors.New("store down"))

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio", nil)
	req.RemoteAddr = "203.0.113.9:51412"
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d despite tracker failure", w.Code)
	}
}

func TestLoginAndAnalyticsRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonReq(http.MethodPost, "/api/login", gin.H{"username": "admin", "password": "letmein"}))
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("expected token, got %s", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("analytics status = %d, body %s", w.Code, w.Body.String())
	}
	var report visitor.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Total != 0 {
		t.Fatalf("total = %d for empty store", report.Total)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	for _, body := range []gin.H{
		{"username": "admin", "password": "wrong"},
		{"username": "nobody", "password": "letmein"},
		{"username": "admin", "password": ""},
		{"username": "", "password": ""},
	} {
		w := env.do(jsonReq(http.MethodPost, "/api/login", body))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("login %v status = %d", body, w.Code)
		}
	}
}

func TestCredentialsUsernameMismatchNeverAuthenticates(t *testing.T) {
	env := newTestEnv(t)
	// A correct password must not authenticate under the wrong
	// username, even though the hash compare runs on both paths.
	if env.handlers.credentialsOK("intruder", "letmein") {
		t.Fatalf("wrong username accepted with correct password")
	}
	if !env.handlers.credentialsOK("admin", "letmein") {
		t.Fatalf("correct credentials rejected")
	}
}

func TestAnalyticsGate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil))
	if w.Code != http.StatusUnauthorized || w.Body.String() != `{"error":"Unauthorized"}` {
		t.Fatalf("missing token: %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = env.do(req)
	if w.Code != http.StatusUnauthorized || w.Body.String() != `{"error":"Invalid token"}` {
		t.Fatalf("bad token: %d %s", w.Code, w.Body.String())
	}
}

func TestProjectCRUDAndLookup(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t)

	req := jsonReq(http.MethodPost, "/api/admin/projects", gin.H{
		"title": "Tracker",
		"tags":  []string{"go", "gin"},
	})
	req.Header.Set("Authorization", "Bearer "+tok)
	w := env.do(req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID   string `json:"id"`
		Tags string `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("create response %s", w.Body.String())
	}
	if created.Tags != "go,gin" {
		t.Fatalf("tags flattened = %q", created.Tags)
	}

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/projects/"+created.ID, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("public get status = %d", w.Code)
	}

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/projects/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing project status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/projects/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if w = env.do(req); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/projects/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	if w = env.do(req); w.Code != http.StatusNotFound {
		t.Fatalf("double delete status = %d", w.Code)
	}
}

func TestCreateMessageValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(jsonReq(http.MethodPost, "/api/messages", gin.H{"name": "A", "email": ""}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete message status = %d", w.Code)
	}

	w = env.do(jsonReq(http.MethodPost, "/api/messages", gin.H{
		"name": "A", "email": "a@example.com", "message": "hello",
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("message status = %d, body %s", w.Code, w.Body.String())
	}

	tok := env.token(t)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/messages", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = env.do(req)
	var msgs []portfolio.Message
	if err := json.Unmarshal(w.Body.Bytes(), &msgs); err != nil || len(msgs) != 1 {
		t.Fatalf("messages list %s", w.Body.String())
	}
}

func TestUpsertSetting(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t)

	req := jsonReq(http.MethodPut, "/api/admin/settings/cvLink", gin.H{"value": "/files/cv-2026.pdf"})
	req.Header.Set("Authorization", "Bearer "+tok)
	if w := env.do(req); w.Code != http.StatusOK {
		t.Fatalf("upsert status = %d", w.Code)
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
	var payload portfolio.Payload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.CVLink != "/files/cv-2026.pdf" {
		t.Fatalf("cvLink = %q", payload.CVLink)
	}
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "avatar.PNG")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fmt.Fprint(part, "image-bytes")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	w := env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Fatalf("url = %q", resp.URL)
	}

	// Missing file part.
	req = httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+tok)
	w = env.do(req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "No file") {
		t.Fatalf("missing file: %d %s", w.Code, w.Body.String())
	}
}
