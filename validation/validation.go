package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/halioti2/recipe-loop-mvp/errors"
)

// videoIDPattern covers the watch, short-link and shorts URL shapes.
// YouTube video ids are always 11 characters.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|shorts/)([\w-]{11})`)

// ExtractVideoID derives the canonical video id from a stored URL. When
// no known URL shape matches it falls back to the last 11 characters of
// the URL; legacy rows were deduplicated with exactly this heuristic, so
// its failure mode on malformed URLs is kept as-is.
func ExtractVideoID(videoURL string) (string, error) {
	const op = "validation.ExtractVideoID"

	if m := videoIDPattern.FindStringSubmatch(videoURL); m != nil {
		return m[1], nil
	}
	if len(videoURL) >= 11 {
		return videoURL[len(videoURL)-11:], nil
	}
	return "", errors.InvalidInput(op, nil, "could not derive video id from URL")
}

// CanonicalVideoURL is the standardized watch URL stored on recipes.
func CanonicalVideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL performs URL validation for user-supplied video URLs.
func (v *Validator) ValidateURL(urlStr string) error {
	const op = "Validator.ValidateURL"

	if urlStr == "" {
		return errors.InvalidInput(op, nil, "URL is required")
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return errors.InvalidInput(op, err, "Invalid URL format")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.InvalidInput(op, nil, "URL must use HTTP or HTTPS")
	}

	host := parsedURL.Hostname()
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return errors.InvalidInput(op, nil, "Only YouTube URLs are supported")
	}

	return nil
}
