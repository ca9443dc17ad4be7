package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calvinalkan/pontos/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// ErrMissingAPIKey is returned by [NewGemini] without an API key.
var ErrMissingAPIKey = errors.New("missing Gemini API key")

// GeminiConfig configures [NewGemini].
type GeminiConfig struct {
	APIKey string
	Model  string
	Log    logger.Logger
}

// Gemini is a [Service] backed by a langchaingo model, normally Google's
// Gemini API.
type Gemini struct {
	model llms.Model
	log   logger.Logger
}

// NewGemini connects to the Gemini API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return NewWithModel(llm, cfg.Log), nil
}

// NewWithModel wraps an already constructed langchaingo model.
func NewWithModel(model llms.Model, log logger.Logger) *Gemini {
	if log == nil {
		log = logger.Nop()
	}

	return &Gemini{model: model, log: log}
}

// Extract sends req as a single human message and returns the first choice.
// No retries are attempted.
func (g *Gemini) Extract(ctx context.Context, req Request) (string, error) {
	msg := llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: Parts(req)}

	g.log.Debug("extract request", "binary", req.Binary(), "mime", req.MIMEType, "bytes", len(req.Data)+len(req.Text))

	resp, err := g.model.GenerateContent(ctx, []llms.MessageContent{msg}, llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", ErrEmptyResponse
	}

	content := resp.Choices[0].Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}

// Parts lays out req as message parts: the content first, then the prompt
// with the output schema appended.
func Parts(req Request) []llms.ContentPart {
	parts := make([]llms.ContentPart, 0, 2)

	if req.Binary() {
		mime := req.MIMEType
		if mime == "" {
			mime = DefaultBinaryMIME
		}

		parts = append(parts, llms.BinaryPart(MediaType(mime), req.Data))
	} else {
		parts = append(parts, llms.TextPart(req.Text))
	}

	prompt := req.Prompt
	if len(req.Schema) > 0 {
		prompt += "\n\nA resposta deve seguir este JSON Schema:\n" + string(req.Schema)
	}

	return append(parts, llms.TextPart(prompt))
}
