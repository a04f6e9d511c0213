package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/rishuramani/RC/internal/generator"
	"github.com/rishuramani/RC/internal/inspire"
	"github.com/rishuramani/RC/internal/knowledge"
	"github.com/rishuramani/RC/internal/orchestrator"
	"github.com/rishuramani/RC/internal/pipeline"
	"github.com/rishuramani/RC/internal/publish"
	"github.com/rishuramani/RC/internal/scanner"
	"github.com/rishuramani/RC/pkg/llm"
	"github.com/rishuramani/RC/pkg/logging"
)

type fakeGenerator struct {
	draft generator.Draft
}

func (f *fakeGenerator) Generate(_ context.Context, task generator.Task) (generator.Draft, error) {
	draft := f.draft
	if draft.ContentType == "" {
		draft = generator.Draft{
			ContentType: task.ContentType,
			Platform:    task.Platform,
			Topic:       task.Topic,
			Body:        "Clean generated body.",
		}
	}
	return draft, nil
}

type fakeProvider struct{}

func (fakeProvider) Complete(context.Context, llm.Request) (string, error) {
	return "[]", nil
}

func (fakeProvider) Usage() llm.UsageStats {
	return llm.UsageStats{TotalCalls: 3, InputTokens: 100, OutputTokens: 40}
}

type memPipelineStore struct {
	nextID  int64
	content map[int64]*knowledge.Content
}

func newMemPipelineStore() *memPipelineStore {
	return &memPipelineStore{nextID: 1, content: make(map[int64]*knowledge.Content)}
}

func (m *memPipelineStore) AddContent(_ context.Context, nc knowledge.NewContent) (int64, error) {
	id := m.nextID
	m.nextID++
	m.content[id] = &knowledge.Content{
		ID: id, ContentType: nc.ContentType, Platform: nc.Platform,
		Body: nc.Body, Topic: nc.Topic, Status: nc.Status,
	}
	return id, nil
}

func (m *memPipelineStore) GetContent(_ context.Context, id int64) (knowledge.Content, error) {
	c, ok := m.content[id]
	if !ok {
		return knowledge.Content{}, knowledge.ErrNotFound
	}
	return *c, nil
}

func (m *memPipelineStore) ContentByStatus(_ context.Context, status string) ([]knowledge.Content, error) {
	var out []knowledge.Content
	for id := int64(1); id < m.nextID; id++ {
		if c, ok := m.content[id]; ok && c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memPipelineStore) UpdateContentStatus(_ context.Context, id int64, status string) error {
	c, ok := m.content[id]
	if !ok {
		return knowledge.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *memPipelineStore) UpdateContentBody(_ context.Context, id int64, body, title string) error {
	c, ok := m.content[id]
	if !ok {
		return knowledge.ErrNotFound
	}
	c.Body = body
	if title != "" {
		c.Title = title
	}
	return nil
}

func (m *memPipelineStore) SetPlatformPostID(context.Context, int64, string) error { return nil }

func (m *memPipelineStore) UpdateCalendarEntryStatus(context.Context, int64, string, *int64) error {
	return nil
}

// setupTest wires handlers with fakes and a sqlmock-backed store.
func setupTest(t *testing.T, pipeStore *memPipelineStore) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	log := logging.NewLoggerWithService("handlers-test")
	kb := knowledge.NewStore(db)

	Init(Deps{
		Store:        kb,
		Pipeline:     pipeline.New(&fakeGenerator{}, nil, pipeStore, log),
		Orchestrator: orchestrator.New(fakeProvider{}, kb, log),
		Scanner:      scanner.New(fakeProvider{}, kb, nil, nil, scanner.Config{}, log),
		Publisher:    publish.New(nil, nil, log),
		Fetcher:      inspire.NewFetcher(log),
		Provider:     fakeProvider{},
		Logger:       log,
	})

	router := gin.New()
	RegisterRoutes(router)
	return router, mock
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckCompliance(t *testing.T) {
	router, _ := setupTest(t, newMemPipelineStore())

	w := doJSON(t, router, http.MethodPost, "/api/check", map[string]string{
		"body": "A guaranteed outcome for investors.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var check struct {
		Compliant bool     `json:"compliant"`
		Issues    []string `json:"issues"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &check); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if check.Compliant || len(check.Issues) == 0 {
		t.Fatalf("forbidden term not flagged: %+v", check)
	}
}

func TestGenerateContent(t *testing.T) {
	pipeStore := newMemPipelineStore()
	router, _ := setupTest(t, pipeStore)

	w := doJSON(t, router, http.MethodPost, "/api/generate", map[string]string{
		"content_type": "tweet",
		"topic":        "occupancy",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		ContentID int64 `json:"content_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	content, ok := pipeStore.content[resp.ContentID]
	if !ok {
		t.Fatalf("content %d not stored", resp.ContentID)
	}
	if content.Platform != "twitter" {
		t.Fatalf("platform not inferred from content type: %+v", content)
	}
	if content.Status != knowledge.StatusQueued {
		t.Fatalf("clean content should be queued: %+v", content)
	}
}

func TestGenerateContentRequiresTopic(t *testing.T) {
	router, _ := setupTest(t, newMemPipelineStore())

	w := doJSON(t, router, http.MethodPost, "/api/generate", map[string]string{
		"content_type": "tweet",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestApproveRejectFlow(t *testing.T) {
	pipeStore := newMemPipelineStore()
	router, _ := setupTest(t, pipeStore)

	id, _ := pipeStore.AddContent(context.Background(), knowledge.NewContent{
		Status: knowledge.StatusQueued, Body: "x",
	})

	w := doJSON(t, router, http.MethodPost, "/api/content/1/approve", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", w.Code, w.Body.String())
	}
	if pipeStore.content[id].Status != knowledge.StatusApproved {
		t.Fatal("content not approved")
	}

	// Approving again conflicts: content is no longer draft or queued.
	w = doJSON(t, router, http.MethodPost, "/api/content/1/approve", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/content/1/reject", map[string]string{"reason": "tone"})
	if w.Code != http.StatusOK {
		t.Fatalf("reject failed: %d %s", w.Code, w.Body.String())
	}
	if pipeStore.content[id].Status != knowledge.StatusRejected {
		t.Fatal("content not rejected")
	}
}

func TestApproveMissingContent(t *testing.T) {
	router, _ := setupTest(t, newMemPipelineStore())

	w := doJSON(t, router, http.MethodPost, "/api/content/99/approve", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/content/abc/approve", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestReviewQueueEndpoint(t *testing.T) {
	pipeStore := newMemPipelineStore()
	router, _ := setupTest(t, pipeStore)

	pipeStore.AddContent(context.Background(), knowledge.NewContent{
		Status: knowledge.StatusQueued, ContentType: "tweet", Platform: "twitter", Body: "clean",
	})

	w := doJSON(t, router, http.MethodGet, "/api/review", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("expected 1 item, got %d", resp.Count)
	}
}

func TestGetContentNotFound(t *testing.T) {
	router, mock := setupTest(t, newMemPipelineStore())

	mock.ExpectQuery("SELECT .* FROM content").WillReturnError(sql.ErrNoRows)

	w := doJSON(t, router, http.MethodGet, "/api/content/5", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddCalendarEntryValidation(t *testing.T) {
	router, _ := setupTest(t, newMemPipelineStore())

	w := doJSON(t, router, http.MethodPost, "/api/calendar", map[string]string{
		"content_type":   "tweet",
		"scheduled_date": "not-a-date",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", w.Code)
	}
}

func TestPublishDryRunEndpoint(t *testing.T) {
	pipeStore := newMemPipelineStore()
	router, _ := setupTest(t, pipeStore)

	pipeStore.AddContent(context.Background(), knowledge.NewContent{
		Status: knowledge.StatusApproved, Platform: "twitter", ContentType: "tweet", Body: "body",
	})

	w := doJSON(t, router, http.MethodPost, "/api/content/1/publish", map[string]bool{"dry_run": true})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status      string `json:"status"`
		BodyPreview string `json:"body_preview"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "dry_run" || resp.BodyPreview != "body" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if pipeStore.content[1].Status != knowledge.StatusApproved {
		t.Fatal("dry run must not change status")
	}
}

func TestGetLLMUsage(t *testing.T) {
	router, _ := setupTest(t, newMemPipelineStore())

	w := doJSON(t, router, http.MethodGet, "/api/usage", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		TotalCalls  int `json:"total_calls"`
		TotalTokens int `json:"total_tokens"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCalls != 3 || resp.TotalTokens != 140 {
		t.Fatalf("unexpected usage: %+v", resp)
	}
}
