package crmhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tourwise/leasing-concierge/leasing"
)

func TestNewClientRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing url")
	}
	if _, err := NewClient(Config{URL: "::not-a-url"}); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestNotifyBookingConfirmed(t *testing.T) {
	t.Parallel()

	var received leasing.BookingConfirmation
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := MustNew(Config{URL: server.URL, Token: "secret"})
	conf := leasing.BookingConfirmation{
		BookingID:   "b-123",
		CommunityID: "sunset-ridge",
		SlotTime:    time.Date(2025, 8, 28, 10, 0, 0, 0, time.UTC),
		Lead:        leasing.Lead{Name: "Jordan", Email: "jordan@example.com"},
	}
	if err := client.NotifyBookingConfirmed(context.Background(), conf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.BookingID != "b-123" {
		t.Fatalf("payload not delivered: %+v", received)
	}
	if auth != "Bearer secret" {
		t.Fatalf("missing bearer token, got %q", auth)
	}
}

func TestNotifyReportsServerErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := MustNew(Config{URL: server.URL})
	err := client.NotifyBookingConfirmed(context.Background(), leasing.BookingConfirmation{BookingID: "b-1"})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
