package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/halioti2/recipe-loop-mvp/errors"
)

// Source fetches the spoken transcript for a YouTube video. An empty
// string with a nil error means the video has no transcript available.
type Source interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

type Client struct {
	baseURL    string
	maxChars   int
	httpClient *http.Client
}

type Config struct {
	BaseURL  string
	Timeout  time.Duration
	MaxChars int
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		maxChars: cfg.MaxChars,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type transcriptResponse struct {
	Transcript string `json:"transcript"`
	Error      string `json:"error"`
}

// Fetch retrieves the transcript from the microservice and truncates it
// to the configured character cap. Timeouts and non-200 responses are
// returned as errors so callers can treat a missing transcript as a
// per-video condition rather than a fatal one.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, error) {
	const op = "transcript.Fetch"

	if videoID == "" {
		return "", errors.InvalidInput(op, nil, "Video ID is required")
	}

	endpoint := fmt.Sprintf("%s?video_id=%s", c.baseURL, url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Internal(op, err, "Failed to build transcript request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Internal(op, err, "Transcript service unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Internal(op, err, "Failed to read transcript response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Internal(op, nil,
			fmt.Sprintf("Transcript service returned status %d", resp.StatusCode))
	}

	var parsed transcriptResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Internal(op, err, "Failed to decode transcript response")
	}
	if parsed.Error != "" {
		return "", errors.Internal(op, nil, parsed.Error)
	}

	text := parsed.Transcript
	if c.maxChars > 0 && len(text) > c.maxChars {
		text = text[:c.maxChars]
	}
	return text, nil
}
