package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/halioti2/recipe-loop-mvp/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generator produces a text completion for a prompt. The ingredient
// extraction pipeline is the only caller.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	baseURL         string
	apiKey          string
	model           string
	maxOutputTokens int
	temperature     float64
	limiter         *rate.Limiter
	httpClient      *http.Client
}

type Config struct {
	BaseURL           string
	APIKey            string
	Model             string
	Timeout           time.Duration
	MaxOutputTokens   int
	Temperature       float64
	RequestsPerMinute int
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		baseURL:         baseURL,
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
		limiter:         limiter,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate posts the prompt to the generateContent endpoint and returns
// the first candidate's text. Requests are paced through the rate
// limiter before hitting the API.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "gemini.Generate"

	if c.apiKey == "" {
		return "", errors.Internal(op, nil, "Gemini API key is not configured")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Internal(op, err, "Rate limiter wait aborted")
		}
	}

	payload := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			MaxOutputTokens: c.maxOutputTokens,
			Temperature:     c.temperature,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Internal(op, err, "Failed to encode generation request")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, c.model, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Internal(op, err, "Failed to build generation request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Internal(op, err, "Gemini API unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Internal(op, err, "Failed to read generation response")
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", errors.Internal(op, err, "Failed to decode generation response")
	}

	if resp.StatusCode != http.StatusOK {
		message := fmt.Sprintf("Gemini API returned status %d", resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			message = parsed.Error.Message
		}
		return "", errors.Internal(op, nil, message)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.Internal(op, nil, "Gemini API returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// StripCodeFence removes a wrapping markdown code fence, with or without
// a language tag, from model output.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line if one is present.
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "[{") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
