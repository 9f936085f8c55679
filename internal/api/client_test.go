package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/juancollazo-ch/fotoparadies-order-checker/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		StatusBaseURL: baseURL,
		ConfigID:      "1320",
		StatusTimeout: 2 * time.Second,
	}
}

func TestFetchStatusSuccess(t *testing.T) {
	var gotQuery map[string]string
	var gotUserAgent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"config":      r.URL.Query().Get("config"),
			"fullOrderId": r.URL.Query().Get("fullOrderId"),
		}
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summaryStateCode":"DELIVERED","summaryStateText":"Ready for pickup"}`))
	}))
	defer srv.Close()

	client := NewStatusClient(testConfig(srv.URL))
	result := client.FetchStatus(context.Background(), "050842", "541032")

	if gotQuery["config"] != "1320" {
		t.Errorf("config param = %q, want %q", gotQuery["config"], "1320")
	}
	if gotQuery["fullOrderId"] != "541032-050842" {
		t.Errorf("fullOrderId param = %q, want %q", gotQuery["fullOrderId"], "541032-050842")
	}
	if !strings.Contains(gotUserAgent, "Mozilla/5.0") {
		t.Errorf("User-Agent = %q, expected a browser-like value", gotUserAgent)
	}

	if result.RawCode != "DELIVERED" {
		t.Errorf("RawCode = %q, want %q", result.RawCode, "DELIVERED")
	}
	if result.RawText != "Ready for pickup" {
		t.Errorf("RawText = %q, want %q", result.RawText, "Ready for pickup")
	}
	if result.Display != "✅ Ready for pickup" {
		t.Errorf("Display = %q, want %q", result.Display, "✅ Ready for pickup")
	}
}

func TestFetchStatusTextFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantDisplay string
	}{
		{
			name:        "missing text falls back to code",
			body:        `{"summaryStateCode":"SHIPPED"}`,
			wantDisplay: "📦 SHIPPED",
		},
		{
			name:        "missing both falls back to Unknown",
			body:        `{}`,
			wantDisplay: "❓ Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewStatusClient(testConfig(srv.URL))
			result := client.FetchStatus(context.Background(), "050842", "541032")
			if result.Display != tt.wantDisplay {
				t.Errorf("Display = %q, want %q", result.Display, tt.wantDisplay)
			}
		})
	}
}

func TestFetchStatusServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewStatusClient(testConfig(srv.URL))
	result := client.FetchStatus(context.Background(), "050842", "541032")

	if result.RawCode != "" {
		t.Errorf("RawCode = %q, want empty on failure", result.RawCode)
	}
	if !strings.HasPrefix(result.Display, "⚠️ Error:") {
		t.Errorf("Display = %q, want warning-prefixed error label", result.Display)
	}
	if !strings.Contains(result.Display, "500") {
		t.Errorf("Display = %q, expected the upstream status in the message", result.Display)
	}
}

func TestFetchStatusConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // servidor caído: la conexión se rechaza

	client := NewStatusClient(testConfig(srv.URL))
	result := client.FetchStatus(context.Background(), "050842", "541032")

	if result.RawCode != "" {
		t.Errorf("RawCode = %q, want empty on transport failure", result.RawCode)
	}
	if !strings.HasPrefix(result.Display, "⚠️ Error:") {
		t.Errorf("Display = %q, want warning-prefixed error label", result.Display)
	}
}

func TestFetchStatusMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewStatusClient(testConfig(srv.URL))
	result := client.FetchStatus(context.Background(), "050842", "541032")

	if result.RawCode != "" {
		t.Errorf("RawCode = %q, want empty on malformed body", result.RawCode)
	}
	if !strings.HasPrefix(result.Display, "⚠️ Error:") {
		t.Errorf("Display = %q, want warning-prefixed error label", result.Display)
	}
}

func TestFetchStatusUsesVerbatimFullOrderID(t *testing.T) {
	var gotFullOrderID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFullOrderID = r.URL.Query().Get("fullOrderId")
		w.Write([]byte(`{"summaryStateCode":"PROCESSING","summaryStateText":"In production"}`))
	}))
	defer srv.Close()

	client := NewStatusClient(testConfig(srv.URL))
	client.FetchStatus(context.Background(), "541032-050842", "999999")

	if gotFullOrderID != "541032-050842" {
		t.Errorf("fullOrderId = %q, want the 12-digit id verbatim", gotFullOrderID)
	}
}
