package aozora

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// maxBodySize limits downloads to prevent OOM from untrusted URLs.
const maxBodySize = 10 * 1024 * 1024 // 10 MB

const defaultUserAgent = "bungomap/1.0 (literary place-name mapper)"

// Work is the fetched and cleaned text of an Aozora Bunko work.
type Work struct {
	Title string
	Text  string
}

// Client downloads work text from Aozora Bunko. It handles both the card
// HTML pages (extracted with readability) and the zipped Shift_JIS plain
// text files linked from them.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

// NewClient returns a Client with a 30 second timeout.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  defaultUserAgent,
	}
}

// Fetch downloads the work at rawURL and returns its cleaned text.
// Zip archives are unpacked and their first .txt entry decoded from
// Shift_JIS; HTML pages go through ruby sanitization and readability.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Work, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("got status code %d fetching %s", resp.StatusCode, rawURL)
	}
	if resp.ContentLength > int64(maxBodySize) {
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) >= int64(maxBodySize) {
		return nil, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}

	if isZip(rawURL, resp.Header.Get("Content-Type"), body) {
		return workFromZip(body)
	}
	return workFromHTML(rawURL, resp.Header.Get("Content-Type"), body)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return defaultUserAgent
}

func isZip(rawURL, contentType string, body []byte) bool {
	if strings.HasSuffix(strings.ToLower(rawURL), ".zip") {
		return true
	}
	if strings.Contains(contentType, "application/zip") {
		return true
	}
	// PK magic
	return len(body) >= 4 && bytes.HasPrefix(body, []byte("PK\x03\x04"))
}

// workFromZip extracts the first .txt entry from an Aozora zip archive.
// Aozora distributes plain text in Shift_JIS.
func workFromZip(body []byte) (*Work, error) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open zip entry %s: %w", f.Name, err)
		}
		raw, err := io.ReadAll(io.LimitReader(rc, maxBodySize))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read zip entry %s: %w", f.Name, err)
		}
		text, err := decodeShiftJIS(raw)
		if err != nil {
			return nil, err
		}
		return &Work{Text: CleanText(text)}, nil
	}
	return nil, fmt.Errorf("no .txt entry found in zip archive")
}

func workFromHTML(rawURL, contentType string, body []byte) (*Work, error) {
	if isShiftJIS(contentType, body) {
		decoded, err := decodeShiftJIS(body)
		if err != nil {
			return nil, err
		}
		body = []byte(decoded)
	}

	// Remove furigana before extraction so readings do not duplicate
	// the base text.
	body = SanitizeRuby(body)

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}
	return &Work{
		Title: article.Title,
		Text:  CleanText(article.TextContent),
	}, nil
}

func isShiftJIS(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "shift_jis") || strings.Contains(ct, "shift-jis") || strings.Contains(ct, "x-sjis") {
		return true
	}
	head := strings.ToLower(string(body[:min(len(body), 1024)]))
	return strings.Contains(head, "charset=shift_jis") || strings.Contains(head, "charset=x-sjis")
}

func decodeShiftJIS(raw []byte) (string, error) {
	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode Shift_JIS text: %w", err)
	}
	return string(decoded), nil
}
