package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"memchat/internal/engine"
	"memchat/internal/llm"
	"memchat/internal/session"
)

// scriptedProvider returns canned responses in order, one per Complete call.
type scriptedProvider struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (p *scriptedProvider) Complete(_ context.Context, _ llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.calls >= len(p.responses) {
		return nil, fmt.Errorf("no scripted response for call %d", p.calls)
	}
	content := p.responses[p.calls]
	p.calls++
	return &llm.CompletionResponse{Content: content}, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

const clearAnalysis = `{"original_query":"","is_ambiguous":false,"needed_context_from_memory":[]}`

func setupTest(t *testing.T, responses ...string) *Server {
	t.Helper()

	store := session.NewMemoryStore()
	provider := &scriptedProvider{responses: responses}
	eng := engine.New(store, provider, engine.Options{
		RetryBackoff: func(int) time.Duration { return 0 },
	})
	return New(Config{Port: 0}, eng)
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := setupTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestChatEndpoint(t *testing.T) {
	srv := setupTest(t, clearAnalysis, "Here is your answer.")

	w := postChat(t, srv, `{"message": "hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp chatPostResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if len(resp.Replies) != 1 || resp.Replies[0].Content != "Here is your answer." {
		t.Errorf("unexpected replies: %+v", resp.Replies)
	}
	if resp.TokenCount == 0 {
		t.Error("expected a non-zero token count after answering")
	}
}

func TestChatEndpointRequiresMessage(t *testing.T) {
	srv := setupTest(t)

	w := postChat(t, srv, `{"message": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatEndpointRejectsInvalidJSON(t *testing.T) {
	srv := setupTest(t)

	w := postChat(t, srv, `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := setupTest(t, clearAnalysis, "Tokyo is a great choice.")

	// One chat turn creates a session.
	w := postChat(t, srv, `{"message": "Where should I go?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("chat: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var chatResp chatPostResponse
	if err := json.NewDecoder(w.Body).Decode(&chatResp); err != nil {
		t.Fatalf("decoding chat response: %v", err)
	}
	id := chatResp.SessionID

	// List shows it.
	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}
	var infos []session.Info
	if err := json.NewDecoder(w.Body).Decode(&infos); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != id {
		t.Fatalf("unexpected session list: %+v", infos)
	}
	if infos[0].MessageCount != 2 {
		t.Errorf("expected 2 messages, got %d", infos[0].MessageCount)
	}

	// Get returns the state.
	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	var sessResp sessionResponse
	if err := json.NewDecoder(w.Body).Decode(&sessResp); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	if len(sessResp.State.Messages) != 2 {
		t.Errorf("expected 2 stored messages, got %d", len(sessResp.State.Messages))
	}

	// Export renders HTML.
	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/export", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("export: expected text/html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Tokyo is a great choice.") {
		t.Error("export: missing assistant reply in HTML")
	}

	// Delete removes it.
	req = httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d", w.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := setupTest(t)
	srv.cfg.AllowAll = true
	srv.router = srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func dialWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(srv.Router())
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}
	return conn
}

func TestWebSocketChat(t *testing.T) {
	srv := setupTest(t, clearAnalysis, "A reply over the socket.")
	conn := dialWS(t, srv)

	if err := conn.WriteJSON(wsRequest{Type: "message", Content: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "response" {
		t.Fatalf("expected response frame, got %q (%s)", resp.Type, resp.Content)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id in the response frame")
	}
	if resp.Content != "A reply over the socket." {
		t.Errorf("unexpected content %q", resp.Content)
	}
}

func TestWebSocketEmptyContent(t *testing.T) {
	srv := setupTest(t)
	conn := dialWS(t, srv)

	if err := conn.WriteJSON(wsRequest{Type: "message", Content: ""}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("expected error type, got %q", resp.Type)
	}
	if !strings.Contains(resp.Content, "content is required") {
		t.Errorf("expected content error, got %q", resp.Content)
	}
}

func TestWebSocketUnknownType(t *testing.T) {
	srv := setupTest(t)
	conn := dialWS(t, srv)

	if err := conn.WriteJSON(wsRequest{Type: "stream", Content: "hello"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != "error" {
		t.Errorf("expected error type, got %q", resp.Type)
	}
	if !strings.Contains(resp.Content, "unknown message type") {
		t.Errorf("expected unknown type error, got %q", resp.Content)
	}
}
