package relay

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	stdhttp "net/http"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/vovakirdan/swipechat-server/internal/config"
)

var (
	ErrDisabled      = errors.New("relay disabled: no api key configured")
	ErrEmptyResponse = errors.New("provider returned no content")
)

// Completer is the part of the provider client the relay needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Relay forwards conversation text to hosted chat-completion providers.
// Every method degrades to a fallback value instead of returning an error.
type Relay struct {
	client Completer // review and suggestions
	reply  Completer // simulated match replies
	cfg    config.RelayConfig
	log    *zerolog.Logger
}

// New builds a relay against OpenAI-compatible endpoints. A provider without
// an API key is disabled and its methods only serve fallbacks.
func New(cfg config.RelayConfig, logger *zerolog.Logger) *Relay {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	r := &Relay{cfg: cfg, log: logger}
	if cfg.APIKey == "" {
		logger.Warn().Msg("relay api key not set, review and suggestions will serve fallbacks")
	} else {
		r.client = newClient(cfg.BaseURL, cfg.APIKey, stdhttp.DefaultTransport)
	}
	if cfg.ReplyAPIKey == "" {
		logger.Warn().Msg("reply api key not set, match replies will be canned")
	} else {
		r.reply = newClient(cfg.ReplyBaseURL, cfg.ReplyAPIKey, newHeaderTransport(cfg))
	}
	return r
}

// NewWithClient builds a relay that sends every request to client.
func NewWithClient(client Completer, cfg config.RelayConfig, logger *zerolog.Logger) *Relay {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Relay{client: client, reply: client, cfg: cfg, log: logger}
}

func newClient(baseURL, apiKey string, transport stdhttp.RoundTripper) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	clientCfg.HTTPClient = &stdhttp.Client{Transport: transport}
	return openai.NewClientWithConfig(clientCfg)
}

// Enabled reports whether the review provider is configured.
func (r *Relay) Enabled() bool {
	return r.client != nil
}

// ReplyEnabled reports whether the match reply provider is configured.
func (r *Relay) ReplyEnabled() bool {
	return r.reply != nil
}

// Review returns a short, sarcastic review of the conversation.
func (r *Relay) Review(ctx context.Context, convo []byte) string {
	text, err := r.complete(ctx, r.client, openai.ChatCompletionRequest{
		Model:       r.cfg.ReviewModel,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: reviewSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(convo)},
		},
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("review relay failed")
		return FallbackReview
	}
	return text
}

// Suggest returns reply suggestions for the last exchange of a conversation.
func (r *Relay) Suggest(ctx context.Context, s Snippet) []string {
	req := openai.ChatCompletionRequest{
		Model:       r.cfg.ReviewModel,
		MaxTokens:   r.cfg.MaxTokens * 2,
		Temperature: r.cfg.Temperature,
	}

	system := suggestSystemPrompt + suggestListHint
	if r.cfg.StructuredOutput {
		system = suggestSystemPrompt + suggestSchemaHint
		req.ResponseFormat = suggestionsFormat()
	}
	req.Messages = []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("person_one: %s\nperson_two: %s", s.PersonOne, s.PersonTwo)},
	}

	text, err := r.complete(ctx, r.client, req)
	if err != nil {
		r.log.Warn().Err(err).Msg("suggestion relay failed")
		return defaultSuggestions()
	}

	suggestions := parseSuggestions(text)
	if len(suggestions) == 0 {
		r.log.Warn().Str("answer", text).Msg("could not parse suggestions")
		return defaultSuggestions()
	}
	return suggestions
}

// Reply lets the provider answer as the match would.
func (r *Relay) Reply(ctx context.Context, text string) string {
	answer, err := r.complete(ctx, r.reply, openai.ChatCompletionRequest{
		Model:       r.cfg.ReplyModel,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: replySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		r.log.Warn().Err(err).Msg("reply relay failed")
		return CannedReplies[rand.Intn(len(CannedReplies))]
	}
	return answer
}

func (r *Relay) complete(ctx context.Context, client Completer, req openai.ChatCompletionRequest) (string, error) {
	if client == nil {
		return "", ErrDisabled
	}
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	r.log.Debug().Str("model", req.Model).Int("tokens", resp.Usage.TotalTokens).Msg("chat completion")
	return text, nil
}

func suggestionsFormat() *openai.ChatCompletionResponseFormat {
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name: "reply_suggestions",
			Schema: &jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"suggestions": {
						Type:  jsonschema.Array,
						Items: &jsonschema.Definition{Type: jsonschema.String},
					},
				},
				Required:             []string{"suggestions"},
				AdditionalProperties: false,
			},
			Strict: true,
		},
	}
}

func defaultSuggestions() []string {
	out := make([]string, len(DefaultSuggestions))
	copy(out, DefaultSuggestions)
	return out
}
