package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"trailscribe/internal/config"
)

const userAgent = "Trailscribe/0.1.0"

// DraftSummary carries the fields surfaced in a draft-ready notification.
type DraftSummary struct {
	Title           string
	WordCount       int
	PrimaryKeyword  string
	QuoteAuthor     string
	MetaDescription string
	Tags            []string
	DocURL          string
	SheetURL        string
}

// Service is the notification surface exposed to the pipeline.
type Service interface {
	NotifyDraftPublished(ctx context.Context, summary DraftSummary) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a Slack-backed service when a webhook URL is configured,
// a noop otherwise.
func NewService(cfg *config.Config) Service {
	webhook := strings.TrimSpace(cfg.Notifications.SlackWebhookURL)
	if webhook == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &slackService{
		webhook: webhook,
		client:  &http.Client{Timeout: timeout},
	}
}

type slackService struct {
	webhook string
	client  *http.Client
}

type block map[string]any

func plainText(text string) block {
	return block{"type": "plain_text", "text": text}
}

func mrkdwn(text string) block {
	return block{"type": "mrkdwn", "text": text}
}

func fieldOrNA(label, value string) block {
	if strings.TrimSpace(value) == "" {
		value = "N/A"
	}
	return mrkdwn(fmt.Sprintf("*%s:*\n%s", label, value))
}

func (s *slackService) NotifyDraftPublished(ctx context.Context, summary DraftSummary) error {
	wordCount := "N/A"
	if summary.WordCount > 0 {
		wordCount = fmt.Sprintf("%d", summary.WordCount)
	}

	blocks := []block{
		{"type": "header", "text": plainText("🎉 New Blog Post Ready for Review!")},
		{"type": "section", "fields": []block{
			fieldOrNA("Title", summary.Title),
			mrkdwn(fmt.Sprintf("*Word Count:*\n%s", wordCount)),
			fieldOrNA("Primary Keyword", summary.PrimaryKeyword),
			fieldOrNA("Quote Author", summary.QuoteAuthor),
		}},
		{"type": "section", "text": mrkdwn(fmt.Sprintf("*Meta Description:*\n%s", summary.MetaDescription))},
		{"type": "section", "text": mrkdwn(fmt.Sprintf("*Tags:* %s", strings.Join(summary.Tags, ", ")))},
	}

	var buttons []block
	if summary.DocURL != "" {
		buttons = append(buttons, block{
			"type":  "button",
			"text":  plainText("📄 View Google Doc"),
			"url":   summary.DocURL,
			"style": "primary",
		})
	}
	if summary.SheetURL != "" {
		buttons = append(buttons, block{
			"type": "button",
			"text": plainText("📊 View Tracking Sheet"),
			"url":  summary.SheetURL,
		})
	}
	if len(buttons) > 0 {
		blocks = append(blocks, block{"type": "actions", "elements": buttons})
	}

	return s.send(ctx, map[string]any{
		"text":   "📝 New Blog Post Created!",
		"blocks": blocks,
	})
}

func (s *slackService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("❌ Pipeline error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	return s.send(ctx, map[string]any{"text": builder.String()})
}

func (s *slackService) TestNotification(ctx context.Context) error {
	return s.send(ctx, map[string]any{"text": "🧪 Trailscribe notification test"})
}

func (s *slackService) send(ctx context.Context, message map[string]any) error {
	if s == nil || s.client == nil {
		return nil
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("encode slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NewNoop returns a Service that drops every notification.
func NewNoop() Service { return noopService{} }

type noopService struct{}

func (noopService) NotifyDraftPublished(context.Context, DraftSummary) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error         { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
