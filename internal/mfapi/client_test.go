package mfapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/mf/119551/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meta": {
				"fund_house": "Axis Mutual Fund",
				"scheme_type": "Open Ended",
				"scheme_category": "Large Cap",
				"scheme_code": 119551,
				"scheme_name": "Axis Bluechip Fund"
			},
			"data": [{"date": "17-01-2025", "nav": "68.7500"}],
			"status": "SUCCESS"
		}`))
	})

	mux.HandleFunc("/mf/119551", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meta": {"scheme_code": 119551, "scheme_name": "Axis Bluechip Fund"},
			"data": [
				{"date": "17-01-2025", "nav": "68.7500"},
				{"date": "16-01-2025", "nav": "68.1200"}
			],
			"status": "SUCCESS"
		}`))
	})

	mux.HandleFunc("/mf/404404/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "SUCCESS", "meta": {}, "data": []}`))
	})

	mux.HandleFunc("/mf/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "Large Cap" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"schemeCode": 119551, "schemeName": "Axis Bluechip Fund"},
			{"schemeCode": 120503, "schemeName": "ICICI Bluechip Fund"},
			{"schemeCode": 118834, "schemeName": "Mirae Large Cap Fund"}
		]`))
	})

	return httptest.NewServer(mux)
}

func TestSchemeQuote(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, nil)
	quote, err := client.SchemeQuote(context.Background(), "119551")
	if err != nil {
		t.Fatalf("SchemeQuote failed: %v", err)
	}

	if quote.Meta.SchemeName != "Axis Bluechip Fund" {
		t.Errorf("Expected scheme name 'Axis Bluechip Fund', got %q", quote.Meta.SchemeName)
	}
	if len(quote.Data) != 1 || quote.Data[0].NAV != "68.7500" {
		t.Errorf("Unexpected NAV data: %+v", quote.Data)
	}
}

func TestSchemeQuote_UnknownScheme(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, nil)
	if _, err := client.SchemeQuote(context.Background(), "404404"); err == nil {
		t.Fatal("Expected error for unknown scheme")
	}
}

func TestSchemeHistory(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, nil)
	history, err := client.SchemeHistory(context.Background(), "119551")
	if err != nil {
		t.Fatalf("SchemeHistory failed: %v", err)
	}

	if len(history.Data) != 2 {
		t.Errorf("Expected 2 NAV points, got %d", len(history.Data))
	}
}

func TestSearchSchemes_AppliesLimit(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	client := NewClient(server.URL, nil)
	matches, err := client.SearchSchemes(context.Background(), "Large Cap", 2)
	if err != nil {
		t.Fatalf("SearchSchemes failed: %v", err)
	}

	if len(matches) != 2 {
		t.Errorf("Expected limit of 2 matches, got %d", len(matches))
	}
	if matches[0].SchemeCode != 119551 {
		t.Errorf("Expected first match 119551, got %d", matches[0].SchemeCode)
	}
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if _, err := client.SchemeHistory(context.Background(), "119551"); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}
