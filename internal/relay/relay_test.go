package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/swipechat-server/internal/config"
)

type capturedRequest struct {
	Auth    string
	Referer string
	Title   string
	Payload map[string]any
}

// fakeProvider answers /v1/chat/completions with a fixed content and records requests.
func fakeProvider(t *testing.T, status int, content string) (*httptest.Server, chan capturedRequest) {
	t.Helper()

	captured := make(chan capturedRequest, 4)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		captured <- capturedRequest{
			Auth:    r.Header.Get("Authorization"),
			Referer: r.Header.Get("HTTP-Referer"),
			Title:   r.Header.Get("X-Title"),
			Payload: payload,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  payload["model"],
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(ts.Close)
	return ts, captured
}

// hangingProvider accepts requests and never answers until the client gives up.
func hangingProvider(t *testing.T) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func testConfig(baseURL string) config.RelayConfig {
	cfg := config.Default().Relay
	cfg.BaseURL = baseURL + "/v1"
	cfg.APIKey = "test-key"
	cfg.ReplyBaseURL = baseURL + "/v1"
	cfg.ReplyAPIKey = "test-reply-key"
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestReviewForwardsConversation(t *testing.T) {
	ts, captured := fakeProvider(t, http.StatusOK, "  Wow. Riveting stuff.  ")
	cfg := testConfig(ts.URL)

	r := New(cfg, nil)
	got := r.Review(context.Background(), []byte(`{"person_one":["hi"],"person_two":["hey"]}`))
	if got != "Wow. Riveting stuff." {
		t.Fatalf("unexpected review %q", got)
	}

	req := <-captured
	if req.Auth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", req.Auth)
	}
	if req.Title != "" || req.Referer != "" {
		t.Fatalf("attribution headers belong to the reply provider, got %q / %q", req.Title, req.Referer)
	}
	if req.Payload["model"] != cfg.ReviewModel {
		t.Fatalf("unexpected model %v", req.Payload["model"])
	}

	messages, _ := req.Payload["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected system and user turns, got %v", messages)
	}
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	if system["role"] != "system" || !strings.Contains(system["content"].(string), "sarcastic") {
		t.Fatalf("unexpected system turn %v", system)
	}
	if user["role"] != "user" || !strings.Contains(user["content"].(string), `"person_two":["hey"]`) {
		t.Fatalf("conversation not embedded as user turn: %v", user)
	}
}

func TestReviewProviderFailureReturnsFallback(t *testing.T) {
	ts, _ := fakeProvider(t, http.StatusInternalServerError, "")

	r := New(testConfig(ts.URL), nil)
	if got := r.Review(context.Background(), []byte(`{}`)); got != FallbackReview {
		t.Fatalf("expected fallback review, got %q", got)
	}
}

func TestReviewUnreachableProviderReturnsFallback(t *testing.T) {
	ts, _ := fakeProvider(t, http.StatusOK, "unused")
	cfg := testConfig(ts.URL)
	ts.Close()

	r := New(cfg, nil)
	if got := r.Review(context.Background(), []byte(`{}`)); got != FallbackReview {
		t.Fatalf("expected fallback review, got %q", got)
	}
}

func TestDisabledRelayServesFallbacks(t *testing.T) {
	r := New(config.Default().Relay, nil)
	if r.Enabled() || r.ReplyEnabled() {
		t.Fatal("relay without api keys should be disabled")
	}
	if got := r.Review(context.Background(), []byte(`{}`)); got != FallbackReview {
		t.Fatalf("unexpected review %q", got)
	}
	if got := r.Suggest(context.Background(), Snippet{PersonOne: "hi"}); !slices.Equal(got, DefaultSuggestions) {
		t.Fatalf("unexpected suggestions %v", got)
	}
	if got := r.Reply(context.Background(), "hi"); !slices.Contains(CannedReplies, got) {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestSuggestStructuredOutput(t *testing.T) {
	ts, captured := fakeProvider(t, http.StatusOK, `{"suggestions":["Tell me more!","Coffee sometime?"]}`)

	r := New(testConfig(ts.URL), nil)
	got := r.Suggest(context.Background(), Snippet{PersonOne: "I love hiking", PersonTwo: "Me too!"})
	if !slices.Equal(got, []string{"Tell me more!", "Coffee sometime?"}) {
		t.Fatalf("unexpected suggestions %v", got)
	}

	req := <-captured
	format, ok := req.Payload["response_format"].(map[string]any)
	if !ok || format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", req.Payload["response_format"])
	}
}

func TestSuggestFallsBackToNumberedList(t *testing.T) {
	ts, captured := fakeProvider(t, http.StatusOK, "Here you go:\n1. \"Nice!\"\n2. Where to next?\n3) Pics or it didn't happen")
	cfg := testConfig(ts.URL)
	cfg.StructuredOutput = false

	r := New(cfg, nil)
	got := r.Suggest(context.Background(), Snippet{PersonOne: "a", PersonTwo: "b"})
	want := []string{"Nice!", "Where to next?", "Pics or it didn't happen"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	req := <-captured
	if _, ok := req.Payload["response_format"]; ok {
		t.Fatal("response_format should be omitted without structured output")
	}
}

func TestSuggestProviderFailureReturnsDefaults(t *testing.T) {
	ts, _ := fakeProvider(t, http.StatusBadGateway, "")

	r := New(testConfig(ts.URL), nil)
	got := r.Suggest(context.Background(), Snippet{PersonOne: "a"})
	if !slices.Equal(got, DefaultSuggestions) {
		t.Fatalf("unexpected suggestions %v", got)
	}

	// Callers may modify the slice without corrupting the defaults.
	got[0] = "changed"
	if DefaultSuggestions[0] == "changed" {
		t.Fatal("defaults were aliased")
	}
}

func TestReviewTimeoutReturnsFallback(t *testing.T) {
	ts := hangingProvider(t)
	cfg := testConfig(ts.URL)
	cfg.Timeout = 50 * time.Millisecond

	r := New(cfg, nil)
	start := time.Now()
	got := r.Review(context.Background(), []byte(`{}`))
	if got != FallbackReview {
		t.Fatalf("expected fallback review, got %q", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("review took %v, timeout not applied", elapsed)
	}
}

func TestReplyUsesReplyProvider(t *testing.T) {
	review, reviewCaptured := fakeProvider(t, http.StatusOK, "unused")
	reply, replyCaptured := fakeProvider(t, http.StatusOK, "Haha, stop it")
	cfg := testConfig(review.URL)
	cfg.ReplyBaseURL = reply.URL + "/v1"
	cfg.Referer = "http://localhost:3000"
	cfg.Title = "swipechat"

	r := New(cfg, nil)
	if got := r.Reply(context.Background(), "you're cute"); got != "Haha, stop it" {
		t.Fatalf("unexpected reply %q", got)
	}

	req := <-replyCaptured
	if req.Payload["model"] != cfg.ReplyModel {
		t.Fatalf("unexpected model %v", req.Payload["model"])
	}
	if req.Auth != "Bearer test-reply-key" {
		t.Fatalf("unexpected auth header %q", req.Auth)
	}
	if req.Referer != "http://localhost:3000" || req.Title != "swipechat" {
		t.Fatalf("missing attribution headers: referer %q, title %q", req.Referer, req.Title)
	}

	select {
	case got := <-reviewCaptured:
		t.Fatalf("reply reached the review provider: %+v", got)
	default:
	}
}

func TestReplyWithoutKeyIsCanned(t *testing.T) {
	ts, captured := fakeProvider(t, http.StatusOK, "unused")
	cfg := testConfig(ts.URL)
	cfg.ReplyAPIKey = ""

	r := New(cfg, nil)
	if r.ReplyEnabled() {
		t.Fatal("reply provider without key should be disabled")
	}
	if got := r.Reply(context.Background(), "hi"); !slices.Contains(CannedReplies, got) {
		t.Fatalf("unexpected reply %q", got)
	}
	select {
	case got := <-captured:
		t.Fatalf("unexpected provider request %+v", got)
	default:
	}
}
