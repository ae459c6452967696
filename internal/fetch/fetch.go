// Package fetch downloads remote images referenced by templates so they can
// be embedded in the document instead of being loaded by the browser.
package fetch

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultMaxBytes bounds the size of a downloaded image.
const DefaultMaxBytes = 2 << 20

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; EmissionRenderer/1.0)"

// Asset is a downloaded image.
type Asset struct {
	URL         string
	ContentType string
	Data        []byte
}

// DataURI returns the asset as a base64 data: URI.
func (a *Asset) DataURI() string {
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	Client    *http.Client // overrides Timeout when set
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// IsRemote reports whether ref is an http or https URL.
func IsRemote(ref string) bool {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Image downloads an image. The response must be 200 and either declare an
// image content type or be sniffed as one.
func Image(ctx context.Context, urlStr string, opts *Options) (*Asset, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	if !IsRemote(urlStr) {
		return nil, &Error{URL: urlStr, Message: "invalid URL"}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	if int64(len(data)) > maxBytes {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("image larger than %d bytes", maxBytes)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &Error{URL: urlStr, Message: "empty response"}
	}

	contentType, ok := imageType(resp.Header.Get("Content-Type"), data)
	if !ok {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("not an image (%s)", contentType)}
	}

	return &Asset{URL: urlStr, ContentType: contentType, Data: data}, nil
}

// imageType prefers the declared media type and falls back to sniffing.
// SVG cannot be sniffed, so it is only accepted when declared.
func imageType(header string, data []byte) (string, bool) {
	if mediaType, _, err := mime.ParseMediaType(header); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType, true
	}
	sniffed := http.DetectContentType(data)
	return sniffed, strings.HasPrefix(sniffed, "image/")
}
