package assistant

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"thanos/internal/logging"
	"thanos/internal/testsupport"
)

func TestKnowledgeAnswerRouting(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"How do I organize my files?", "Organize button"},
		{"can I undo the last run?", "undone"},
		{"what file types are supported?", "All file types"},
		{"the app is not working", "skipped"},
		{"show me my stats", "per-category"},
	}
	for _, tc := range cases {
		answer, ok := knowledgeAnswer(tc.message)
		if !ok {
			t.Errorf("knowledgeAnswer(%q): no match", tc.message)
			continue
		}
		if !strings.Contains(answer, tc.want) {
			t.Errorf("knowledgeAnswer(%q) = %q, want substring %q", tc.message, answer, tc.want)
		}
	}
}

func TestKnowledgeAnswerNoMatch(t *testing.T) {
	if _, ok := knowledgeAnswer("tell me a joke about penguins"); ok {
		t.Fatal("expected no knowledge-base match")
	}
	if _, ok := knowledgeAnswer(""); ok {
		t.Fatal("expected no match for empty message")
	}
}

func TestReplyPrefersKnowledgeBase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	a := New(cfg, logging.NewNop())

	resp := a.Reply(context.Background(), "how to organize everything?")
	if resp.Source != "knowledge" {
		t.Fatalf("expected knowledge answer, got %+v", resp)
	}
}

func TestReplyFallsBackWithoutBackend(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	a := New(cfg, logging.NewNop())

	resp := a.Reply(context.Background(), "what's the meaning of life?")
	if resp.Source != "fallback" || resp.Reply != offlineReply {
		t.Fatalf("expected offline reply, got %+v", resp)
	}
}

func TestReplyUsesModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"test","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Organizing is fun."},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithLLMKey("test-key"))
	cfg.LLM.BaseURL = server.URL + "/v1"
	a := New(cfg, logging.NewNop())

	resp := a.Reply(context.Background(), "what's the meaning of life?")
	if resp.Source != "model" || resp.Reply != "Organizing is fun." {
		t.Fatalf("expected model reply, got %+v", resp)
	}
}

func TestReplyFallsBackOnModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithLLMKey("test-key"))
	cfg.LLM.BaseURL = server.URL + "/v1"
	a := New(cfg, logging.NewNop())

	resp := a.Reply(context.Background(), "something unusual")
	if resp.Source != "fallback" {
		t.Fatalf("expected fallback, got %+v", resp)
	}
}
