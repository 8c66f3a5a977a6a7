package http

import (
	"context"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/swipechat-server/internal/config"
	"github.com/vovakirdan/swipechat-server/internal/core"
	"github.com/vovakirdan/swipechat-server/internal/relay"
)

// stubRelay records calls and answers with fixed values.
type stubRelay struct {
	mu       sync.Mutex
	convos   []string
	snippets []relay.Snippet

	review      string
	suggestions []string
	reply       string
}

func (s *stubRelay) Review(_ context.Context, convo []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convos = append(s.convos, string(convo))
	return s.review
}

func (s *stubRelay) Suggest(_ context.Context, snippet relay.Snippet) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snippets = append(s.snippets, snippet)
	return s.suggestions
}

func (s *stubRelay) recorded() ([]string, []relay.Snippet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.convos), slices.Clone(s.snippets)
}

func (s *stubRelay) Reply(_ context.Context, _ string) string {
	return s.reply
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	return cfg
}

// startTestServer runs a hub and an httptest server around NewServer.
func startTestServer(t *testing.T, rel Relay, cfg config.Config) *httptest.Server {
	t.Helper()

	disabledLogger := zerolog.Nop()

	hub := core.NewHub(&disabledLogger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := NewServer(hub, rel, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})

	return ts
}
