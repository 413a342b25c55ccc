package categorizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/bankstmt/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// GeminiClient implements AIClient with the Google Gemini API. Requests are
// rate limited and individually bounded by a timeout.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
	timeout time.Duration
	logger  logging.Logger
}

// GeminiOptions configures NewGeminiClient.
type GeminiOptions struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// NewGeminiClient connects to Gemini.
func NewGeminiClient(ctx context.Context, opts GeminiOptions, logger logging.Logger) (*GeminiClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(opts.Model)

	return &GeminiClient{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1),
		timeout: opts.Timeout,
		logger:  logger,
	}, nil
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Classify implements AIClient.
func (c *GeminiClient) Classify(ctx context.Context, description string, categories []string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(buildPrompt(description, categories)))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	answer := responseText(resp)
	if answer == "" {
		return "", errors.New("gemini returned an empty answer")
	}
	c.logger.Debug("Gemini answered", logging.F(logging.FieldCategory, answer))
	return answer, nil
}

func buildPrompt(description string, categories []string) string {
	var b strings.Builder
	b.WriteString("Classify this bank transaction into exactly one of the categories below.\n")
	b.WriteString("Answer with the category name only.\n\nCategories:\n")
	for _, c := range categories {
		b.WriteString("- ")
		b.WriteString(c)
		b.WriteString("\n")
	}
	b.WriteString("\nTransaction: ")
	b.WriteString(description)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var parts []string
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
		if text := strings.TrimSpace(strings.Join(parts, "")); text != "" {
			return text
		}
	}
	return ""
}
