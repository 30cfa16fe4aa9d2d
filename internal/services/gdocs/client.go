package gdocs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trailscribe/internal/services/blogwriter"
)

const (
	defaultDocsBaseURL   = "https://docs.googleapis.com"
	defaultSheetsBaseURL = "https://sheets.googleapis.com"
	defaultHTTPTimeout   = 30 * time.Second
)

// Config captures the settings required to talk to the Google APIs.
type Config struct {
	AccessToken   string
	DocsBaseURL   string
	SheetsBaseURL string
	TimeoutSecs   int
}

// DocInfo identifies a created Google Doc.
type DocInfo struct {
	DocID    string
	DocTitle string
	DocURL   string
}

// SheetInfo identifies the tracking spreadsheet.
type SheetInfo struct {
	SheetID  string
	SheetURL string
}

// Client talks to the Docs and Sheets REST APIs with a bearer token.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient constructs a Google APIs client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSecs > 0 {
		timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	}
	client := &Client{
		cfg: Config{
			AccessToken:   strings.TrimSpace(cfg.AccessToken),
			DocsBaseURL:   strings.TrimRight(strings.TrimSpace(cfg.DocsBaseURL), "/"),
			SheetsBaseURL: strings.TrimRight(strings.TrimSpace(cfg.SheetsBaseURL), "/"),
			TimeoutSecs:   cfg.TimeoutSecs,
		},
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.DocsBaseURL == "" {
		client.cfg.DocsBaseURL = defaultDocsBaseURL
	}
	if client.cfg.SheetsBaseURL == "" {
		client.cfg.SheetsBaseURL = defaultSheetsBaseURL
	}
	return client
}

// CreateBlogDoc creates a Google Doc titled after the draft and inserts the
// formatted body with a metadata footer.
func (c *Client) CreateBlogDoc(ctx context.Context, draft *blogwriter.Draft) (DocInfo, error) {
	if draft == nil {
		return DocInfo{}, errors.New("create doc: draft required")
	}
	if c.cfg.AccessToken == "" {
		return DocInfo{}, errors.New("create doc: access token required")
	}

	docTitle := fmt.Sprintf("%s - %s", draft.Title, c.now().Format("2006-01-02"))

	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := c.call(ctx, http.MethodPost, c.cfg.DocsBaseURL+"/v1/documents",
		map[string]any{"title": docTitle}, &created); err != nil {
		return DocInfo{}, fmt.Errorf("create doc: %w", err)
	}
	if created.DocumentID == "" {
		return DocInfo{}, errors.New("create doc: response missing documentId")
	}

	body := formatDocBody(draft)
	batch := map[string]any{
		"requests": []map[string]any{
			{"insertText": map[string]any{
				"location": map[string]any{"index": 1},
				"text":     body,
			}},
		},
	}
	endpoint := fmt.Sprintf("%s/v1/documents/%s:batchUpdate", c.cfg.DocsBaseURL, created.DocumentID)
	if err := c.call(ctx, http.MethodPost, endpoint, batch, nil); err != nil {
		return DocInfo{}, fmt.Errorf("insert doc content: %w", err)
	}

	return DocInfo{
		DocID:    created.DocumentID,
		DocTitle: docTitle,
		DocURL:   fmt.Sprintf("https://docs.google.com/document/d/%s/edit", created.DocumentID),
	}, nil
}

// EnsureTrackingSheet creates the monthly tracking spreadsheet with its
// header row and returns its identity.
func (c *Client) EnsureTrackingSheet(ctx context.Context) (SheetInfo, error) {
	if c.cfg.AccessToken == "" {
		return SheetInfo{}, errors.New("create sheet: access token required")
	}

	title := fmt.Sprintf("Blog Content Tracker - %s", c.now().Format("2006-01"))
	var created struct {
		SpreadsheetID string `json:"spreadsheetId"`
	}
	if err := c.call(ctx, http.MethodPost, c.cfg.SheetsBaseURL+"/v4/spreadsheets",
		map[string]any{"properties": map[string]any{"title": title}}, &created); err != nil {
		return SheetInfo{}, fmt.Errorf("create sheet: %w", err)
	}
	if created.SpreadsheetID == "" {
		return SheetInfo{}, errors.New("create sheet: response missing spreadsheetId")
	}

	headers := []any{
		"Date Created", "Title", "Google Doc URL", "Status", "Primary Keyword",
		"Tags", "Word Count", "Meta Description", "Publish Date",
		"Published URL", "Quote Author",
	}
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?valueInputOption=RAW",
		c.cfg.SheetsBaseURL, created.SpreadsheetID, "A1:K1")
	if err := c.call(ctx, http.MethodPut, endpoint,
		map[string]any{"values": []any{headers}}, nil); err != nil {
		return SheetInfo{}, fmt.Errorf("write sheet headers: %w", err)
	}

	return SheetInfo{
		SheetID:  created.SpreadsheetID,
		SheetURL: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", created.SpreadsheetID),
	}, nil
}

// AppendTrackingRow appends one DRAFT row for the published document.
func (c *Client) AppendTrackingRow(ctx context.Context, sheetID string, draft *blogwriter.Draft, doc DocInfo) error {
	if sheetID == "" {
		return errors.New("append row: sheet id required")
	}
	if draft == nil {
		return errors.New("append row: draft required")
	}

	row := []any{
		c.now().Format("2006-01-02 15:04:05"),
		draft.Title,
		doc.DocURL,
		"DRAFT",
		draft.PrimaryKeyword,
		strings.Join(draft.Tags, ", "),
		fmt.Sprintf("%d", draft.WordCount),
		draft.MetaDescription,
		"",
		"",
		draft.QuoteAuthor,
	}
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW",
		c.cfg.SheetsBaseURL, sheetID, "A:K")
	if err := c.call(ctx, http.MethodPost, endpoint,
		map[string]any{"values": []any{row}}, nil); err != nil {
		return fmt.Errorf("append tracking row: %w", err)
	}
	return nil
}

func formatDocBody(draft *blogwriter.Draft) string {
	return fmt.Sprintf(`%s

Meta Description: %s

%s

---
METADATA:
- Tags: %s
- Word Count: %d
- Generated: %s
- Primary Keyword: %s
- Suggested Images: %s
- Quote Author: %s
`,
		draft.Title,
		draft.MetaDescription,
		draft.Content,
		strings.Join(draft.Tags, ", "),
		draft.WordCount,
		draft.GeneratedDate,
		draft.PrimaryKeyword,
		strings.Join(draft.SuggestedImages, ", "),
		draft.QuoteAuthor,
	)
}

func (c *Client) call(ctx context.Context, method, endpoint string, payload, result any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d: %s", resp.StatusCode, snippet(body))
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	const limit = 200
	if len(text) > limit {
		text = text[:limit] + "..."
	}
	if text == "" {
		return "<empty>"
	}
	return text
}
