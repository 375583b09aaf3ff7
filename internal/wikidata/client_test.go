package wikidata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, nil, time.Minute, time.Minute)
}

func TestSearchShortQuerySkipsNetwork(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a short query")
	})

	for _, q := range []string{"", "a", " a "} {
		if got := c.Search(context.Background(), q); got != nil {
			t.Fatalf("Search(%q) = %v, want nil", q, got)
		}
	}
}

func TestSearchReturnsCandidates(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "wbsearchentities" {
			t.Errorf("action = %q", got)
		}
		if got := r.URL.Query().Get("search"); got != "breaking bad" {
			t.Errorf("search = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"search": []map[string]string{
				{"id": "Q1079", "label": "Breaking Bad", "description": "American crime drama"},
				{"id": "Q30695548", "label": "Breaking Bad", "description": "film"},
			},
		})
	})

	got := c.Search(context.Background(), "breaking bad")
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != "Q1079" || got[0].Label != "Breaking Bad" {
		t.Fatalf("first candidate = %+v", got[0])
	}
}

func TestSearchDegradesOnServerError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	if got := c.Search(context.Background(), "severance"); got != nil {
		t.Fatalf("expected nil on server error, got %v", got)
	}
}

func TestSearchDegradesOnGarbage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	if got := c.Search(context.Background(), "severance"); got != nil {
		t.Fatalf("expected nil on decode failure, got %v", got)
	}
}

func TestGetEntityMissing(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entities": map[string]interface{}{
				"Q999999999": map[string]interface{}{"id": "Q999999999", "missing": ""},
			},
		})
	})

	entity, err := c.GetEntity(context.Background(), "Q999999999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entity != nil {
		t.Fatalf("expected nil entity, got %+v", entity)
	}
}

func TestGetEntityServerErrorIsAnError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	if _, err := c.GetEntity(context.Background(), "Q1079"); err == nil {
		t.Fatal("expected an error on server failure")
	}
}

func TestParseWikidataTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		ok    bool
		year  int
		month time.Month
		day   int
	}{
		{"+2013-09-29T00:00:00Z", true, 2013, time.September, 29},
		{"+2008-00-00T00:00:00Z", true, 2008, time.January, 1}, // year precision
		{"+1963-11-23T00:00:00Z", true, 1963, time.November, 23},
		{"garbage", false, 0, 0, 0},
		{"", false, 0, 0, 0},
	}
	for _, tt := range tests {
		got, ok := parseWikidataTime(tt.in)
		if ok != tt.ok {
			t.Fatalf("parseWikidataTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if got.Year() != tt.year || got.Month() != tt.month || got.Day() != tt.day {
			t.Fatalf("parseWikidataTime(%q) = %v", tt.in, got)
		}
	}
}

func TestFirstQuantityStripsSign(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"amount": "+5", "unit": "1"}`)
	e := &Entity{Claims: map[string][]Claim{
		"P2437": {{MainSnak: Snak{SnakType: "value", DataValue: &DataValue{Type: "quantity", Value: raw}}}},
	}}

	n, ok := e.FirstQuantity("P2437")
	if !ok || n != 5 {
		t.Fatalf("FirstQuantity = %d, %v", n, ok)
	}
}

func TestHasClaimIgnoresValuelessSnaks(t *testing.T) {
	t.Parallel()

	e := &Entity{Claims: map[string][]Claim{
		"P582": {{MainSnak: Snak{SnakType: "novalue"}}},
	}}
	if e.HasClaim("P582") {
		t.Fatal("novalue snak must not count as a claim")
	}
	if e.HasClaim("P580") {
		t.Fatal("absent property must not count as a claim")
	}
}

func TestWikipediaURL(t *testing.T) {
	t.Parallel()

	e := &Entity{Sitelinks: map[string]Sitelink{
		"enwiki": {Site: "enwiki", Title: "Breaking Bad"},
	}}
	if got := e.WikipediaURL(); got != "https://en.wikipedia.org/wiki/Breaking_Bad" {
		t.Fatalf("WikipediaURL = %q", got)
	}

	none := &Entity{}
	if got := none.WikipediaURL(); got != "" {
		t.Fatalf("expected empty url without sitelink, got %q", got)
	}
}
