package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mamadbah2/satisfaction/internal/config"
	"github.com/mamadbah2/satisfaction/internal/domain/models"
)

func TestSend(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(config.NotifierConfig{WebhookURL: srv.URL + "/hook", Token: "s3cret"})
	msg := Message{Text: "Hoje: 3 votes", Report: &models.PeriodReport{Label: "Hoje"}}
	if err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer s3cret" {
		t.Errorf("Authorization = %q", auth)
	}
	if got.Text != msg.Text || got.Report == nil || got.Report.Label != "Hoje" {
		t.Errorf("body = %+v", got)
	}
}

func TestSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"token revoked"}`))
	}))
	defer srv.Close()

	err := NewClient(config.NotifierConfig{WebhookURL: srv.URL}).Send(context.Background(), Message{Text: "x"})
	if err == nil || !strings.Contains(err.Error(), "token revoked") || !strings.Contains(err.Error(), "403") {
		t.Fatalf("error = %v, want 403 with message", err)
	}
}
