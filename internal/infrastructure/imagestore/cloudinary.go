// Package imagestore implements the avatar image host on top of the
// Cloudinary REST API: signed uploads, deletion by delivery URL, and
// public-ID extraction.
package imagestore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.cloudinary.com"
	defaultTimeout = 30 * time.Second
)

// Config captures the settings for talking to the image host.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// Folder is prepended to every uploaded public ID (e.g. "avatars").
	Folder string
	// BaseURL overrides the API endpoint; used by tests.
	BaseURL string
	Timeout time.Duration
}

// Client is an ImageStore backed by the Cloudinary upload API.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}, log: log}
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// Upload stores content under the configured folder and publicID, returning
// the secure delivery URL.
func (c *Client) Upload(ctx context.Context, content []byte, publicID string) (string, error) {
	fields := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if c.cfg.Folder != "" {
		fields["folder"] = c.cfg.Folder
	}
	c.sign(fields)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", fmt.Errorf("imagestore: build upload form: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", "avatar")
	if err != nil {
		return "", fmt.Errorf("imagestore: build upload form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("imagestore: build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("imagestore: build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("imagestore: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("imagestore: upload response missing secure_url")
	}

	c.log.Info().Str("public_id", resp.PublicID).Msg("image uploaded")
	return resp.SecureURL, nil
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Delete removes the image behind rawURL. It reports false when the URL
// does not map to a hosted image or the host has no record of it.
func (c *Client) Delete(ctx context.Context, rawURL string) (bool, error) {
	publicID := ExtractPublicID(rawURL)
	if publicID == "" {
		return false, nil
	}

	fields := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	c.sign(fields)

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("imagestore: build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp destroyResponse
	if err := c.do(req, &resp); err != nil {
		return false, err
	}

	switch resp.Result {
	case "ok":
		c.log.Info().Str("public_id", publicID).Msg("image deleted")
		return true, nil
	case "not found":
		return false, nil
	default:
		return false, fmt.Errorf("imagestore: destroy failed: %s", resp.Result)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("imagestore: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("imagestore: unexpected status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("imagestore: decode response: %w", err)
	}
	return nil
}

// sign adds api_key and the SHA-1 request signature over the sorted
// parameters, per the Cloudinary authentication scheme.
func (c *Client) sign(fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.APISecret))
	fields["signature"] = hex.EncodeToString(sum[:])
	fields["api_key"] = c.cfg.APIKey
}

// ExtractPublicID derives the public ID from a Cloudinary delivery URL.
// Returns "" when the URL is not a recognizable delivery URL.
//
// Handled forms:
//
//	https://res.cloudinary.com/<cloud>/image/upload/v123/<public_id>.jpg
//	https://res.cloudinary.com/<cloud>/image/upload/<public_id>.jpg
func ExtractPublicID(rawURL string) string {
	if rawURL == "" || !strings.Contains(rawURL, "cloudinary.com") {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p != "upload" {
			continue
		}
		rest := parts[i+1:]
		if len(rest) > 0 && isVersionSegment(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return ""
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id))
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
