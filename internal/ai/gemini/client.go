package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/tsavowest/ai-interviewer/internal/ai"
	"github.com/tsavowest/ai-interviewer/internal/logger"
	"github.com/tsavowest/ai-interviewer/internal/utils"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultMaxRetries = 3

	// retryBaseDelay is multiplied by the attempt number, giving 2s, 4s waits
	// between the three attempts.
	retryBaseDelay = 2 * time.Second

	generateTemperature     = 0.7
	generateMaxOutputTokens = 1024

	// Judgment calls are constrained to a short deterministic completion
	// ("PASS"/"FAIL" or a decimal string).
	judgeMaxOutputTokens = 10

	instructionMarker = "[SYSTEM INSTRUCTION]: "
)

// Client wraps the Google GenAI client as the interview's completion gateway.
type Client struct {
	client     *genai.Client
	modelName  string
	maxRetries int
	logger     *zap.Logger
}

var _ ai.Gateway = (*Client)(nil)

// NewClient creates a Client configured for the Gemini API backend. A missing
// API key is a configuration error and fails construction.
func NewClient(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		client:     client,
		modelName:  model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, "gemini", model),
	}, nil
}

// Generate sends the system prompt, the bounded history and the phase
// instruction to Gemini and returns the reply text.
func (c *Client) Generate(ctx context.Context, req ai.GenerateRequest) (string, error) {
	contents := buildContents(req.History, req.Instruction)

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(generateTemperature)),
		MaxOutputTokens: generateMaxOutputTokens,
	}
	if prompt := strings.TrimSpace(req.SystemPrompt); prompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: prompt}},
		}
	}

	return c.request(ctx, contents, cfg)
}

// Judge sends a single-shot judgment prompt at zero temperature with a short
// output cap.
func (c *Client) Judge(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("judgment prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0)),
		MaxOutputTokens: judgeMaxOutputTokens,
	}

	return c.request(ctx, genai.Text(prompt), cfg)
}

func (c *Client) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

// request performs the completion call with bounded retries and linear backoff.
func (c *Client) request(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client is not initialized")
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		resp, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, cfg)
		if err == nil {
			output := extractText(resp)
			if output != "" {
				c.logger.Debug("gemini request succeeded",
					zap.Int("attempt", attempt),
					zap.Duration("turnaround", time.Since(start)),
				)
				return output, nil
			}
			err = errors.New("gemini api returned empty response")
		}

		lastErr = err

		if isRateLimit(err) {
			c.logger.Warn("gemini rate limit exceeded",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxRetries),
			)
		} else {
			c.logger.Error("gemini request failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.maxRetries),
				zap.Error(err),
			)
		}

		if attempt == c.maxRetries {
			break
		}

		if err := utils.WaitFor(ctx, utils.LinearBackoff(retryBaseDelay, attempt)); err != nil {
			return "", fmt.Errorf("waiting before retry: %w", err)
		}
	}

	return "", fmt.Errorf("generate content after %d attempts: %w", c.maxRetries, lastErr)
}

// buildContents maps the conversation history into genai contents and appends
// the phase instruction as a marked user turn, mirroring how the interview
// feeds per-phase directives to the model.
func buildContents(history []ai.Message, instruction string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)

	for _, msg := range history {
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}

		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: text}},
		})
	}

	if instruction = strings.TrimSpace(instruction); instruction != "" {
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: instructionMarker + instruction}},
		})
	}

	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}

func isRateLimit(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota")
}
