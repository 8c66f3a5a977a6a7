package relay

import (
	stdhttp "net/http"

	"github.com/vovakirdan/swipechat-server/internal/config"
)

// headerTransport adds the optional attribution headers some providers
// (OpenRouter) use to identify the calling app.
type headerTransport struct {
	base    stdhttp.RoundTripper
	headers stdhttp.Header
}

func newHeaderTransport(cfg config.RelayConfig) stdhttp.RoundTripper {
	headers := stdhttp.Header{}
	if cfg.Referer != "" {
		headers.Set("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		headers.Set("X-Title", cfg.Title)
	}
	if len(headers) == 0 {
		return stdhttp.DefaultTransport
	}
	return &headerTransport{base: stdhttp.DefaultTransport, headers: headers}
}

func (t *headerTransport) RoundTrip(req *stdhttp.Request) (*stdhttp.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header[k] = v
	}
	return t.base.RoundTrip(req)
}
