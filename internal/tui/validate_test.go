// ABOUTME: Tests for journal API connection validation.
// ABOUTME: Uses httptest to verify auth headers, query params, and error handling.
package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateConnection_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected x-api-key=test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.URL.Query().Get("num_entries") != "3" {
			t.Errorf("expected num_entries=3, got %s", r.URL.Query().Get("num_entries"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Items":[]}`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, "test-key")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateConnection_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden"}`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, "bad-key")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestValidateConnection_NotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>wrong endpoint</html>`))
	}))
	defer server.Close()

	err := ValidateConnection(context.Background(), server.URL, "test-key")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestValidateConnection_Unreachable(t *testing.T) {
	err := ValidateConnection(context.Background(), "http://localhost:1", "test-key")
	if err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestValidateConnection_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Items":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ValidateConnection(ctx, server.URL, "test-key")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
