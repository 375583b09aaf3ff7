package wikidata

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestResolveLabelsFallbackChain(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entities": map[string]interface{}{
				"Q1": map[string]interface{}{
					"id":     "Q1",
					"labels": map[string]interface{}{"en": map[string]string{"language": "en", "value": "HBO"}},
				},
				"Q2": map[string]interface{}{
					"id":     "Q2",
					"labels": map[string]interface{}{"mul": map[string]string{"language": "mul", "value": "ARTE"}},
				},
				"Q3": map[string]interface{}{
					"id": "Q3",
					"aliases": map[string]interface{}{
						"en": []map[string]string{{"language": "en", "value": "The Beeb"}},
					},
				},
				"Q4": map[string]interface{}{
					"id":     "Q4",
					"labels": map[string]interface{}{"ja": map[string]string{"language": "ja", "value": "フジテレビ"}},
				},
				"Q5": map[string]interface{}{"id": "Q5"},
				"Q6": map[string]interface{}{"id": "Q6", "missing": ""},
			},
		})
	})

	got := c.ResolveLabels(context.Background(), []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6"})

	want := map[string]string{
		"Q1": "HBO",
		"Q2": "ARTE",
		"Q3": "The Beeb",
		"Q4": "フジテレビ",
	}
	if len(got) != len(want) {
		t.Fatalf("resolved %d labels, want %d: %v", len(got), len(want), got)
	}
	for id, label := range want {
		if got[id] != label {
			t.Fatalf("label for %s = %q, want %q", id, got[id], label)
		}
	}
	if _, ok := got["Q5"]; ok {
		t.Fatal("id with no label anywhere must be omitted")
	}
}

func TestResolveLabelsBatches(t *testing.T) {
	t.Parallel()

	var batches []int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), "|")
		batches = append(batches, len(ids))
		docs := make(map[string]interface{}, len(ids))
		for _, id := range ids {
			docs[id] = map[string]interface{}{
				"id":     id,
				"labels": map[string]interface{}{"en": map[string]string{"language": "en", "value": "label " + id}},
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"entities": docs})
	})

	ids := make([]string, 73)
	for i := range ids {
		ids[i] = "Q" + strconv.Itoa(i+1)
	}

	got := c.ResolveLabels(context.Background(), ids)
	if len(got) != len(ids) {
		t.Fatalf("resolved %d labels, want %d", len(got), len(ids))
	}
	if len(batches) != 2 || batches[0] != 50 || batches[1] != 23 {
		t.Fatalf("batch sizes = %v, want [50 23]", batches)
	}
}

func TestResolveLabelsFailureYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	got := c.ResolveLabels(context.Background(), []string{"Q1", "Q2"})
	if len(got) != 0 {
		t.Fatalf("expected empty map on failure, got %v", got)
	}
}

func TestResolveLabelsNoIDs(t *testing.T) {
	t.Parallel()

	c := NewClient("http://unused.invalid", nil, time.Minute, time.Minute)
	if got := c.ResolveLabels(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
