package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trailscribe/internal/config"
	"trailscribe/internal/notifications"
	"trailscribe/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenWebhookMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.SlackWebhookURL = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyDraftPublished(context.Background(), notifications.DraftSummary{Title: "x"}); err != nil {
		t.Fatalf("expected noop to return nil, got %v", err)
	}
}

func TestNotifyDraftPublishedPayload(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type: %q", got)
		}
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithSlackWebhook(server.URL))
	svc := notifications.NewService(cfg)

	summary := notifications.DraftSummary{
		Title:           "Hiking Mount Washington",
		WordCount:       842,
		PrimaryKeyword:  "mount washington hike",
		QuoteAuthor:     "John Muir",
		MetaDescription: "A first ascent of New Hampshire's highest peak.",
		Tags:            []string{"hiking", "new england"},
		DocURL:          "https://docs.google.com/document/d/doc1/edit",
		SheetURL:        "https://docs.google.com/spreadsheets/d/sheet1/edit",
	}
	if err := svc.NotifyDraftPublished(context.Background(), summary); err != nil {
		t.Fatalf("NotifyDraftPublished: %v", err)
	}

	var message struct {
		Text   string            `json:"text"`
		Blocks []json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(captured, &message); err != nil {
		t.Fatalf("payload is not valid JSON: %v\n%s", err, captured)
	}
	if message.Text != "📝 New Blog Post Created!" {
		t.Errorf("fallback text: %q", message.Text)
	}
	// header, fields, meta description, tags, actions
	if len(message.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(message.Blocks))
	}

	body := string(captured)
	for _, want := range []string{
		"New Blog Post Ready for Review!",
		"*Title:*\\nHiking Mount Washington",
		"*Word Count:*\\n842",
		"*Quote Author:*\\nJohn Muir",
		"*Tags:* hiking, new england",
		summary.DocURL,
		summary.SheetURL,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %q", want)
		}
	}
}

func TestNotifyDraftPublishedOmitsActionsWithoutURLs(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithSlackWebhook(server.URL))
	svc := notifications.NewService(cfg)

	if err := svc.NotifyDraftPublished(context.Background(), notifications.DraftSummary{Title: "Draft"}); err != nil {
		t.Fatalf("NotifyDraftPublished: %v", err)
	}
	if strings.Contains(string(captured), `"actions"`) {
		t.Errorf("actions block present without URLs:\n%s", captured)
	}
	if !strings.Contains(string(captured), "N/A") {
		t.Errorf("missing N/A placeholders:\n%s", captured)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithSlackWebhook(server.URL))
	svc := notifications.NewService(cfg)

	err := svc.NotifyError(context.Background(), errors.New("combine failed"), "Discovery Park July 9")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should carry status code: %v", err)
	}
}
