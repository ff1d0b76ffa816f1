package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/activity-finder/internal/infra/llm/chatgpt"
	"github.com/yanqian/activity-finder/pkg/metrics"
)

const defaultBatchSize = 10

// ChatClient is the generative text provider used to produce candidates.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// GenerationInput is the context handed to the candidate generator.
type GenerationInput struct {
	WeatherDescription string
	TimeOfDay          TimeOfDay
	City               string
	Exclusion          string
}

// Generator asks the chat model for a batch of candidate suggestions.
type Generator struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewGenerator constructs a candidate generator.
func NewGenerator(cfg Config, client ChatClient, logger *slog.Logger) *Generator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Generator{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "activity.generator"),
	}
}

// Generate returns up to BatchSize candidates, or nil when the provider fails
// or answers with anything other than the expected JSON shape.
func (g *Generator) Generate(ctx context.Context, in GenerationInput) []Suggestion {
	completion, err := g.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: g.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: g.buildSystemPrompt()},
			{Role: "user", Content: g.buildUserPrompt(in)},
		},
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.logger.Error("candidate generation failed", "city", in.City, "error", err)
		return nil
	}
	if usage := completion.TokenUsage(); !usage.IsZero() {
		g.logUsage(usage)
	}
	if len(completion.Choices) == 0 {
		g.logger.Warn("candidate generation returned no choices", "city", in.City)
		return nil
	}

	raw := completion.Choices[0].Message.Content
	suggestions, err := parseSuggestions(raw)
	if err != nil {
		g.logger.Warn("candidate generation malformed", "error", err, "payload", raw)
		return nil
	}
	if len(suggestions) > g.cfg.BatchSize {
		suggestions = suggestions[:g.cfg.BatchSize]
	}
	g.logger.Info("candidates generated", "city", in.City, "count", len(suggestions))
	return suggestions
}

func (g *Generator) logUsage(usage metrics.TokenUsage) {
	g.logger.Debug("candidate generation usage", "tokens", usage)
}

func (g *Generator) buildSystemPrompt() string {
	base := strings.TrimSpace(g.cfg.Prompt)
	if base == "" {
		base = "You are a local guide who suggests things to do nearby."
	}
	enforcer := " Respond ONLY with a valid JSON array of objects. Each object must have exactly two keys: \"place\" (the name of a real venue) and \"activity\" (one full sentence describing what to do there). Never return plain text, Markdown or other keys."
	return base + enforcer
}

func (g *Generator) buildUserPrompt(in GenerationInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest exactly %d varied indoor and outdoor activities in %s for the %s. The weather is currently %s.",
		g.cfg.BatchSize, firstNonEmpty(in.City, "the user's area"), firstNonEmpty(string(in.TimeOfDay), "day"), firstNonEmpty(in.WeatherDescription, "unknown"))
	if hint := strings.TrimSpace(in.Exclusion); hint != "" {
		b.WriteString(" ")
		b.WriteString(hint)
	}
	return b.String()
}

// parseSuggestions decodes a generated payload into suggestions. Every element
// must carry both a place and an activity or the whole batch is rejected.
func parseSuggestions(raw string) ([]Suggestion, error) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
	if sanitized == "" {
		return nil, errors.New("empty payload")
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(sanitized), &items); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if items == nil {
		return nil, errors.New("payload is not an array")
	}
	out := make([]Suggestion, 0, len(items))
	for i, item := range items {
		place, err := requiredString(item, "place")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		activity, err := requiredString(item, "activity")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, Suggestion{Place: place, Activity: activity})
	}
	return out, nil
}

func requiredString(item map[string]json.RawMessage, key string) (string, error) {
	raw, ok := item[key]
	if !ok {
		return "", fmt.Errorf("%s missing", key)
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s empty", key)
	}
	return value, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
