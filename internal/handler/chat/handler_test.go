package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/internal/model/talk"
	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/internal/service/agent"
	"github.com/zhouzirui/talk-agent/backend/internal/service/toolset"
)

func reply(text string) transcript.AssistantMessage {
	return transcript.AssistantMessage{
		Content: transcript.Structured(transcript.Part{Type: transcript.OutputText, Text: text}),
		Status:  transcript.StatusCompleted,
	}
}

// scripted returns a provider that lists talks once, then answers.
func scripted() agent.Provider {
	return agent.ProviderFunc(func(_ context.Context, req agent.Request) (*agent.Response, error) {
		for _, item := range req.Input {
			if _, ok := item.(transcript.ToolResult); ok {
				return &agent.Response{Output: []transcript.Item{reply("There is one talk.")}}, nil
			}
		}
		return &agent.Response{Output: []transcript.Item{
			transcript.ToolCall{CallID: "call_1", Name: "list_talks", Arguments: "{}"},
		}}, nil
	})
}

func setupRouter(t *testing.T, provider agent.Provider) *chi.Mux {
	t.Helper()
	return setupRouterWithReason(t, provider, "OPENAI_API_KEY is not set")
}

func setupRouterWithReason(t *testing.T, provider agent.Provider, unavailable string) *chi.Mux {
	t.Helper()

	var runner Runner
	if provider != nil {
		tools, err := toolset.Talks(record.NewMemoryStore(talk.Seed(), nil))
		if err != nil {
			t.Fatalf("toolset err: %v", err)
		}
		runner = agent.New(provider, tools, agent.Config{Instructions: "help"})
	}

	r := chi.NewRouter()
	New(runner, unavailable).RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsClientTranscript(t *testing.T) {
	r := setupRouter(t, scripted())

	resp := post(r, "/chat", `{"chat":[{"role":"user","content":"list talks"}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var items []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected user + assistant, got %v", items)
	}
	if items[0]["role"] != "user" || items[0]["content"] != "list talks" {
		t.Fatalf("unexpected first item %v", items[0])
	}
	if items[1]["role"] != "assistant" || items[1]["content"] != "There is one talk." {
		t.Fatalf("unexpected second item %v", items[1])
	}
	if strings.Contains(resp.Body.String(), "function_call") {
		t.Fatalf("tool items leaked to client: %s", resp.Body.String())
	}
}

func TestChatRejectsNonArray(t *testing.T) {
	r := setupRouter(t, scripted())

	for _, body := range []string{`{"chat":"hello"}`, `{}`, `not json`} {
		resp := post(r, "/chat", body)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
	}
}

func TestChatWithoutCredential(t *testing.T) {
	r := setupRouter(t, nil)

	resp := post(r, "/chat", `{"chat":[]}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "OPENAI_API_KEY is not set") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestChatReportsProviderConstructionError(t *testing.T) {
	r := setupRouterWithReason(t, nil, "failed to create chat model: boom")

	resp := post(r, "/chat", `{"chat":[]}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "failed to create chat model: boom") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestChatUnavailableDefaultsToSentinel(t *testing.T) {
	r := setupRouterWithReason(t, nil, "")

	resp := post(r, "/chat", `{"chat":[]}`)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), " is not set") || !strings.Contains(resp.Body.String(), "provider unavailable") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestChatProviderErrorIsBadRequest(t *testing.T) {
	failing := agent.ProviderFunc(func(context.Context, agent.Request) (*agent.Response, error) {
		return nil, errors.New("rate limited")
	})
	r := setupRouter(t, failing)

	resp := post(r, "/chat", `{"chat":[{"role":"user","content":"hi"}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "rate limited") {
		t.Fatalf("expected provider message in body, got %s", resp.Body.String())
	}
}

func TestStreamEmitsItemsThenDone(t *testing.T) {
	r := setupRouter(t, scripted())

	resp := post(r, "/chat/stream", `{"chat":[{"role":"user","content":"list talks"}]}`)
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var events []string
	scanner := bufio.NewScanner(strings.NewReader(resp.Body.String()))
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	if got := strings.Join(events, ","); got != "item,item,item,done" {
		t.Fatalf("unexpected events %s\n%s", got, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"kind":"tool_call"`) {
		t.Fatalf("expected tool_call item, got %s", resp.Body.String())
	}
}

func TestStreamReportsError(t *testing.T) {
	failing := agent.ProviderFunc(func(context.Context, agent.Request) (*agent.Response, error) {
		return nil, errors.New("boom")
	})
	r := setupRouter(t, failing)

	resp := post(r, "/chat/stream", `{"chat":[]}`)
	if !strings.Contains(resp.Body.String(), "event: error") {
		t.Fatalf("expected error event, got %s", resp.Body.String())
	}
}

func TestWebSocketTurns(t *testing.T) {
	srv := httptest.NewServer(setupRouter(t, scripted()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"chat":[{"role":"user","content":"list talks"}]}`)); err != nil {
		t.Fatalf("write err: %v", err)
	}
	var frame struct {
		Type string              `json:"type"`
		Data []map[string]string `json:"data"`
	}
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if frame.Type != frameTranscript || len(frame.Data) != 2 || frame.Data[1]["content"] != "There is one talk." {
		t.Fatalf("unexpected frame %+v", frame)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"chat":{}}`)); err != nil {
		t.Fatalf("write err: %v", err)
	}
	var errFrame outgoingFrame
	if err := conn.ReadJSON(&errFrame); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if errFrame.Type != frameError || errFrame.Data != invalidChatMessage {
		t.Fatalf("unexpected error frame %+v", errFrame)
	}
}
