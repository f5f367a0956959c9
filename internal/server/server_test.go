package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"thanos/internal/assistant"
	"thanos/internal/catalog"
	"thanos/internal/config"
	"thanos/internal/logging"
	"thanos/internal/organize"
	"thanos/internal/server"
	"thanos/internal/services/classifier"
	"thanos/internal/testsupport"
)

type fallbackClassifier struct{}

func (fallbackClassifier) Classify(_ context.Context, info classifier.FileInfo) classifier.Classification {
	return classifier.Fallback(info)
}

func newTestServer(t *testing.T) (http.Handler, *config.Config, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	runner := organize.NewRunner(cfg, store, fallbackClassifier{}, logging.NewNop())
	undoer := organize.NewUndoer(cfg, store, logging.NewNop())
	chat := assistant.New(cfg, logging.NewNop())
	srv := server.New(cfg, store, runner, undoer, chat, logging.NewNop())
	return srv.Handler(), cfg, store
}

func uploadFile(t *testing.T, handler http.Handler, name string, size int) map[string]any {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte{0x42}, size)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}

	var view map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return view
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestUploadAndFileLifecycle(t *testing.T) {
	handler, cfg, _ := newTestServer(t)

	view := uploadFile(t, handler, "Vacation Photo.jpg", 128)
	id, _ := view["id"].(string)
	if id == "" {
		t.Fatalf("upload response missing id: %v", view)
	}
	if view["mimeType"] != "image/jpeg" || view["fileType"] != "jpg" {
		t.Fatalf("unexpected type detection: %v", view)
	}
	path, _ := view["currentPath"].(string)
	if filepath.Dir(path) != cfg.Paths.UploadDir {
		t.Fatalf("file stored outside upload dir: %q", path)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/files", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list files: status %d", rec.Code)
	}
	var listing struct {
		Files []map[string]any `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(listing.Files))
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/files/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get file: status %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/files/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete file: status %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/files/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted file still visible: status %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodDelete, "/api/files/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: status %d", rec.Code)
	}
}

func TestUploadSanitizesFilename(t *testing.T) {
	handler, _, _ := newTestServer(t)

	view := uploadFile(t, handler, `we<ird:na*me?.pdf`, 16)
	name, _ := view["currentName"].(string)
	if strings.ContainsAny(name, `<>:*?"|`) {
		t.Fatalf("name not sanitized: %q", name)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("extension lost: %q", name)
	}
}

func TestListFilesFilterValidation(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/files?organized=maybe", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad filter, got %d", rec.Code)
	}
}

func TestOrganizeStream(t *testing.T) {
	handler, _, _ := newTestServer(t)

	uploadFile(t, handler, "photo.jpg", 64)
	uploadFile(t, handler, "report.pdf", 64)

	rec := doJSON(t, handler, http.MethodPost, "/api/organize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("organize: status %d, body %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/x-ndjson" {
		t.Fatalf("unexpected content type %q", got)
	}

	lines := nonEmptyLines(rec.Body.String())
	if len(lines) < 2 {
		t.Fatalf("expected events plus done marker, got %v", lines)
	}
	if lines[len(lines)-1] != "[DONE]" {
		t.Fatalf("stream must end with done marker, got %q", lines[len(lines)-1])
	}

	var events []organize.Event
	for _, line := range lines[:len(lines)-1] {
		var event organize.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("bad event line %q: %v", line, err)
		}
		events = append(events, event)
	}

	terminal := events[len(events)-1]
	if terminal.Status != organize.EventCompleted || terminal.Progress != 100 {
		t.Fatalf("unexpected terminal event: %+v", terminal)
	}
	if terminal.Result == nil || terminal.Result.FilesProcessed != 2 {
		t.Fatalf("unexpected summary: %+v", terminal.Result)
	}
	for _, event := range events[:len(events)-1] {
		if event.Status != organize.EventProcessing {
			t.Fatalf("non-terminal event must be processing: %+v", event)
		}
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/files?organized=false", nil)
	var listing struct {
		Files []map[string]any `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Files) != 0 {
		t.Fatalf("all files should be organized, %d remain", len(listing.Files))
	}
}

func TestOrganizeStreamEmptyLibrary(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/organize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("organize: status %d", rec.Code)
	}
	lines := nonEmptyLines(rec.Body.String())
	if lines[len(lines)-1] != "[DONE]" {
		t.Fatalf("stream must end with done marker, got %q", lines[len(lines)-1])
	}

	var terminal organize.Event
	if err := json.Unmarshal([]byte(lines[len(lines)-2]), &terminal); err != nil {
		t.Fatal(err)
	}
	if terminal.Status != organize.EventCompleted || terminal.Result == nil || terminal.Result.TotalFiles != 0 {
		t.Fatalf("unexpected terminal event: %+v", terminal)
	}
}

func TestUndoEndpoint(t *testing.T) {
	handler, _, store := newTestServer(t)

	uploadFile(t, handler, "photo.jpg", 64)
	rec := doJSON(t, handler, http.MethodPost, "/api/organize", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("organize: status %d", rec.Code)
	}

	orgs, err := store.ListOrganizations(context.Background())
	if err != nil || len(orgs) != 1 {
		t.Fatalf("expected one organization, got %d (%v)", len(orgs), err)
	}
	orgID := orgs[0].ID

	rec = doJSON(t, handler, http.MethodPost, "/api/organize/undo", map[string]string{"organizationId": orgID})
	if rec.Code != http.StatusOK {
		t.Fatalf("undo: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success       bool `json:"success"`
		FilesReverted int  `json:"filesReverted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.FilesReverted != 1 {
		t.Fatalf("unexpected undo response: %+v", resp)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/organize/undo", map[string]string{"organizationId": orgID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("double undo: status %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/organize/undo", map[string]string{"organizationId": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown organization: status %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/organize/undo", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing organizationId: status %d", rec.Code)
	}
}

func TestOrganizationEndpoints(t *testing.T) {
	handler, _, _ := newTestServer(t)

	uploadFile(t, handler, "photo.jpg", 64)
	doJSON(t, handler, http.MethodPost, "/api/organize", nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/organizations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list organizations: status %d", rec.Code)
	}
	var listing struct {
		Organizations []struct {
			ID             string           `json:"id"`
			Status         string           `json:"status"`
			BeforeSnapshot []map[string]any `json:"beforeSnapshot"`
			AfterSnapshot  []map[string]any `json:"afterSnapshot"`
		} `json:"organizations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatal(err)
	}
	if len(listing.Organizations) != 1 {
		t.Fatalf("expected 1 organization, got %d", len(listing.Organizations))
	}
	org := listing.Organizations[0]
	if org.Status != "completed" {
		t.Fatalf("unexpected status %q", org.Status)
	}
	if len(org.BeforeSnapshot) != 1 || len(org.AfterSnapshot) != 1 {
		t.Fatalf("snapshots not decoded: %+v", org)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/organizations/"+org.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get organization: status %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/organizations/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing organization: status %d", rec.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	handler, _, _ := newTestServer(t)

	uploadFile(t, handler, "photo.jpg", 100)
	uploadFile(t, handler, "notes.txt", 50)

	rec := doJSON(t, handler, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status %d", rec.Code)
	}
	var stats struct {
		TotalFiles       int   `json:"totalFiles"`
		UnorganizedFiles int   `json:"unorganizedFiles"`
		TotalBytes       int64 `json:"totalBytes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalFiles != 2 || stats.UnorganizedFiles != 2 || stats.TotalBytes != 150 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestChatEndpoint(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", map[string]string{"message": "how do I organize my files?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: status %d", rec.Code)
	}
	var resp struct {
		Reply  string `json:"reply"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Source != "knowledge" || resp.Reply == "" {
		t.Fatalf("unexpected chat response: %+v", resp)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/chat", map[string]string{"message": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty message: status %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: status %d", rec.Code)
	}
	var resp struct {
		Status        string `json:"status"`
		Database      string `json:"database"`
		LLMConfigured bool   `json:"llmConfigured"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Database != "ok" {
		t.Fatalf("unexpected health response: %+v", resp)
	}
	if resp.LLMConfigured {
		t.Fatal("llm should be unconfigured in tests")
	}
}

func nonEmptyLines(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
