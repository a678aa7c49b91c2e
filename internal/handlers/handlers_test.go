package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/talkpal-app/conversation-service/internal/config"
	"github.com/talkpal-app/conversation-service/internal/models"
	"github.com/talkpal-app/conversation-service/internal/services"
	"github.com/talkpal-app/conversation-service/internal/utils"
)

type stubConversationService struct {
	resp *services.ConversationResponse
	eval *services.EvaluationResponse
	err  error
}

func (s *stubConversationService) Converse(context.Context, *services.ConversationRequest) (*services.ConversationResponse, error) {
	return s.resp, s.err
}

func (s *stubConversationService) ExamConverse(context.Context, *services.ExamConversationRequest) (*services.ConversationResponse, error) {
	return s.resp, s.err
}

func (s *stubConversationService) Evaluate(context.Context, *services.EvaluationRequest) (*services.EvaluationResponse, error) {
	return s.eval, s.err
}

type stubProgressService struct {
	record  *models.UserRecord
	updated []string
	entries []services.LeaderboardEntry
	err     error

	applyCalls int
}

func (s *stubProgressService) GetOrCreate(context.Context, string) (*models.UserRecord, error) {
	return s.record, s.err
}

func (s *stubProgressService) ApplyUpdate(context.Context, string, *services.ProgressUpdateRequest) ([]string, error) {
	s.applyCalls++
	return s.updated, s.err
}

func (s *stubProgressService) Leaderboard(context.Context, int) ([]services.LeaderboardEntry, error) {
	return s.entries, s.err
}

type stubServiceManager struct {
	conv services.ConversationService
	prog services.ProgressService
}

func (m *stubServiceManager) Conversation() services.ConversationService { return m.conv }
func (m *stubServiceManager) Progress() services.ProgressService         { return m.prog }

func newTestRouter(t *testing.T, conv services.ConversationService, prog services.ProgressService) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	cfg := &config.Config{
		UploadsDir:    t.TempDir(),
		PublicBaseURL: "http://localhost:8000",
	}
	manager := &stubServiceManager{conv: conv, prog: prog}
	router := gin.New()
	NewHandlerManager(manager, logger, cfg).SetupRoutes(router)
	return router, cfg
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetScenarios(t *testing.T) {
	router, _ := newTestRouter(t, &stubConversationService{}, &stubProgressService{})

	w := doJSON(router, http.MethodGet, "/scenarios", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var scenarios []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &scenarios); err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 5 {
		t.Errorf("got %d scenarios, want 5", len(scenarios))
	}
	if _, leaked := scenarios[0]["system_prompt"]; leaked {
		t.Error("system_prompt must not be exposed in the scenario list")
	}
}

func TestCreateConversationUnknownScenario(t *testing.T) {
	prog := &stubProgressService{}
	router, _ := newTestRouter(t, &stubConversationService{err: services.ErrScenarioNotFound}, prog)

	w := doJSON(router, http.MethodPost, "/conversation", gin.H{
		"scenario":     "time_travel",
		"user_message": "hi",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if prog.applyCalls != 0 {
		t.Errorf("progress store touched on scenario miss")
	}
}

func TestCreateConversationOK(t *testing.T) {
	feedback := "Good job"
	conv := &stubConversationService{resp: &services.ConversationResponse{
		AIMessage:             "Hello!",
		Feedback:              &feedback,
		GrammarCorrections:    []string{"a"},
		VocabularySuggestions: []string{},
	}}
	router, _ := newTestRouter(t, conv, &stubProgressService{})

	w := doJSON(router, http.MethodPost, "/conversation", gin.H{
		"scenario":     "restaurant",
		"user_message": "I want order",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp services.ConversationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.AIMessage != "Hello!" || resp.Feedback == nil || *resp.Feedback != "Good job" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestUpdateProgressResponseShape(t *testing.T) {
	prog := &stubProgressService{updated: []string{"weekly_xp", "last_active"}}
	router, _ := newTestRouter(t, &stubConversationService{}, prog)

	w := doJSON(router, http.MethodPost, "/user/progress/u1", gin.H{"added_xp": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Status        string   `json:"status"`
		UpdatedFields []string `json:"updated_fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" {
		t.Errorf("status = %q", resp.Status)
	}
	if len(resp.UpdatedFields) != 2 {
		t.Errorf("updated_fields = %v", resp.UpdatedFields)
	}
}

func TestSpeechToTextStub(t *testing.T) {
	router, _ := newTestRouter(t, &stubConversationService{}, &stubProgressService{})

	w := doJSON(router, http.MethodPost, "/speech-to-text", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "temporarily disabled") {
		t.Errorf("unexpected stub body: %s", w.Body.String())
	}
}

func uploadRequest(t *testing.T, field, filename string, content []byte) (*http.Request, error) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(content); err != nil {
		return nil, err
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

func TestUploadAvatarRejectsNonImage(t *testing.T) {
	router, _ := newTestRouter(t, &stubConversationService{}, &stubProgressService{})

	req, err := uploadRequest(t, "file", "notes.txt", []byte("hello"))
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Only images are allowed") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadAvatarStoresImage(t *testing.T) {
	router, _ := newTestRouter(t, &stubConversationService{}, &stubProgressService{})

	req, err := uploadRequest(t, "file", "me.png", []byte{0x89, 0x50, 0x4e, 0x47})
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.URL, "http://localhost:8000/uploads/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Errorf("url = %q", resp.URL)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	prog := &stubProgressService{entries: []services.LeaderboardEntry{
		{Rank: 1, UserID: "u2", DisplayName: "User u2", WeeklyXP: 30},
		{Rank: 2, UserID: "u1", DisplayName: "User u1", WeeklyXP: 10},
	}}
	router, _ := newTestRouter(t, &stubConversationService{}, prog)

	w := doJSON(router, http.MethodGet, "/leaderboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var entries []services.LeaderboardEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Rank != 1 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestEvaluateEndpoint(t *testing.T) {
	conv := &stubConversationService{eval: &services.EvaluationResponse{
		BandScore: 6.5,
		Feedback:  "ok",
	}}
	router, _ := newTestRouter(t, conv, &stubProgressService{})

	w := doJSON(router, http.MethodPost, "/ielts/evaluate", gin.H{
		"conversation_history": []gin.H{{"role": "user", "content": "hello"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "6.5") {
		t.Errorf("body = %s", w.Body.String())
	}
}
