package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quadramart/settlement/internal/pkg/money"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestInitiateReturnsPaymentURL(t *testing.T) {
	var received initiateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/payments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(initiateResponse{PaymentURL: "https://pay.example.com/p/ref-1"})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	url, err := client.Initiate(context.Background(), "ref-1", 42, money.FromInt64(150000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay.example.com/p/ref-1" {
		t.Fatalf("unexpected payment url %q", url)
	}
	if received.Reference != "ref-1" || received.OrderID != 42 {
		t.Fatalf("unexpected request payload %+v", received)
	}
	if received.Amount != money.FromInt64(150000).String() {
		t.Fatalf("unexpected amount %q", received.Amount)
	}
}

func TestInitiateRejectsEmptyPaymentURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(initiateResponse{})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := client.Initiate(context.Background(), "ref-1", 42, money.FromInt64(100)); err == nil {
		t.Fatal("expected error for missing payment url")
	}
}

func TestInitiateLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = client.Initiate(context.Background(), "ref-1", 42, money.FromInt64(100))
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}
