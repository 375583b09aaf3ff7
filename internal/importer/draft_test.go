package importer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kmartindale/SceneIt/internal/models"
	"github.com/kmartindale/SceneIt/internal/wikidata"
)

// newTestBuilder serves canned wbgetentities documents for both entity and
// label lookups. Ids absent from the map come back as missing.
func newTestBuilder(t *testing.T, entities map[string]interface{}) *Builder {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		docs := make(map[string]interface{})
		for _, id := range strings.Split(r.URL.Query().Get("ids"), "|") {
			if doc, ok := entities[id]; ok {
				docs[id] = doc
			} else {
				docs[id] = map[string]interface{}{"id": id, "missing": ""}
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"entities": docs})
	}))
	t.Cleanup(srv.Close)
	return NewBuilder(wikidata.NewClient(srv.URL, nil, time.Minute, time.Minute))
}

func timeClaim(ts string) interface{} {
	return map[string]interface{}{
		"mainsnak": map[string]interface{}{
			"snaktype":  "value",
			"datavalue": map[string]interface{}{"type": "time", "value": map[string]interface{}{"time": ts}},
		},
	}
}

func quantityClaim(amount string) interface{} {
	return map[string]interface{}{
		"mainsnak": map[string]interface{}{
			"snaktype":  "value",
			"datavalue": map[string]interface{}{"type": "quantity", "value": map[string]interface{}{"amount": amount}},
		},
	}
}

func itemClaim(id string) interface{} {
	return map[string]interface{}{
		"mainsnak": map[string]interface{}{
			"snaktype":  "value",
			"datavalue": map[string]interface{}{"type": "wikibase-entityid", "value": map[string]interface{}{"id": id}},
		},
	}
}

func enLabel(value string) map[string]interface{} {
	return map[string]interface{}{"en": map[string]interface{}{"language": "en", "value": value}}
}

func TestBuildDraftCompleteEntity(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q1079": map[string]interface{}{
			"id":     "Q1079",
			"labels": enLabel("Breaking Bad"),
			"claims": map[string]interface{}{
				"P580":  []interface{}{timeClaim("+2008-01-20T00:00:00Z")},
				"P582":  []interface{}{timeClaim("+2013-09-29T00:00:00Z")},
				"P2437": []interface{}{quantityClaim("+5")},
				"P449":  []interface{}{itemClaim("Q217199")},
				"P136":  []interface{}{itemClaim("Q959790")},
			},
			"sitelinks": map[string]interface{}{
				"enwiki": map[string]interface{}{"site": "enwiki", "title": "Breaking Bad"},
			},
		},
		"Q217199": map[string]interface{}{"id": "Q217199", "labels": enLabel("AMC")},
		"Q959790": map[string]interface{}{"id": "Q959790", "labels": enLabel("crime drama")},
	})

	draft, err := b.BuildDraft(context.Background(), "Q1079")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Name != "Breaking Bad" {
		t.Fatalf("name = %q", draft.Name)
	}
	// End time outranks start time for the headline date.
	if draft.ReleaseDate == nil || draft.ReleaseDate.Year() != 2013 {
		t.Fatalf("release date = %v, want 2013", draft.ReleaseDate)
	}
	if draft.Running {
		t.Fatal("entity with an end date must not be running")
	}
	if draft.TotalSeasons != 5 {
		t.Fatalf("seasons = %d, want 5", draft.TotalSeasons)
	}
	if len(draft.SuggestedServiceNames) != 1 || draft.SuggestedServiceNames[0] != "AMC" {
		t.Fatalf("services = %v", draft.SuggestedServiceNames)
	}
	if len(draft.SuggestedTagNames) != 1 || draft.SuggestedTagNames[0] != "crime drama" {
		t.Fatalf("tags = %v", draft.SuggestedTagNames)
	}
	if len(draft.ExternalRefs) != 2 {
		t.Fatalf("expected wikidata and wikipedia refs, got %d", len(draft.ExternalRefs))
	}
	if draft.ExternalRefs[0].Source != models.SourceWikidata || draft.ExternalRefs[0].ExternalID != "Q1079" {
		t.Fatalf("first ref = %+v", draft.ExternalRefs[0])
	}
	if draft.ExternalRefs[1].Source != models.SourceWikipedia {
		t.Fatalf("second ref = %+v", draft.ExternalRefs[1])
	}
	if got := *draft.ExternalRefs[1].URL; got != "https://en.wikipedia.org/wiki/Breaking_Bad" {
		t.Fatalf("wikipedia url = %q", got)
	}
}

func TestBuildDraftRunningWithoutEndDate(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q3577037": map[string]interface{}{
			"id":     "Q3577037",
			"labels": enLabel("Doctor Who"),
			"claims": map[string]interface{}{
				"P580": []interface{}{timeClaim("+1963-11-23T00:00:00Z")},
			},
		},
	})

	draft, err := b.BuildDraft(context.Background(), "Q3577037")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !draft.Running {
		t.Fatal("no end date means still running")
	}
	if draft.ReleaseDate == nil || draft.ReleaseDate.Year() != 1963 {
		t.Fatalf("release date = %v, want start time fallback", draft.ReleaseDate)
	}
}

func TestBuildDraftEpisodeCountFallback(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		// Plausible episode count stands in for a missing season count.
		"Q100": map[string]interface{}{
			"id":     "Q100",
			"labels": enLabel("Miniseries"),
			"claims": map[string]interface{}{
				"P1113": []interface{}{quantityClaim("+12")},
			},
		},
		// Implausibly large counts are rejected and the default holds.
		"Q200": map[string]interface{}{
			"id":     "Q200",
			"labels": enLabel("Long Runner"),
			"claims": map[string]interface{}{
				"P1113": []interface{}{quantityClaim("+45")},
			},
		},
	})

	draft, err := b.BuildDraft(context.Background(), "Q100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.TotalSeasons != 12 {
		t.Fatalf("seasons = %d, want 12", draft.TotalSeasons)
	}

	draft, err = b.BuildDraft(context.Background(), "Q200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.TotalSeasons != 1 {
		t.Fatalf("seasons = %d, want default 1", draft.TotalSeasons)
	}
}

func TestBuildDraftSeasonCountOutranksEpisodeCount(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q300": map[string]interface{}{
			"id":     "Q300",
			"labels": enLabel("Both Counts"),
			"claims": map[string]interface{}{
				"P2437": []interface{}{quantityClaim("+3")},
				"P1113": []interface{}{quantityClaim("+24")},
			},
		},
	})

	draft, err := b.BuildDraft(context.Background(), "Q300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.TotalSeasons != 3 {
		t.Fatalf("seasons = %d, want season count 3", draft.TotalSeasons)
	}
}

func TestBuildDraftDistributorFallback(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q400": map[string]interface{}{
			"id":     "Q400",
			"labels": enLabel("Streamed Only"),
			"claims": map[string]interface{}{
				"P750": []interface{}{itemClaim("Q907311")},
			},
		},
		"Q907311": map[string]interface{}{"id": "Q907311", "labels": enLabel("Netflix")},
	})

	draft, err := b.BuildDraft(context.Background(), "Q400")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.SuggestedServiceNames) != 1 || draft.SuggestedServiceNames[0] != "Netflix" {
		t.Fatalf("services = %v, want distributor fallback", draft.SuggestedServiceNames)
	}
}

func TestBuildDraftBroadcasterSuppressesDistributor(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q500": map[string]interface{}{
			"id":     "Q500",
			"labels": enLabel("Dual Sourced"),
			"claims": map[string]interface{}{
				"P449": []interface{}{itemClaim("Q217199")},
				"P750": []interface{}{itemClaim("Q907311")},
			},
		},
		"Q217199": map[string]interface{}{"id": "Q217199", "labels": enLabel("AMC")},
		"Q907311": map[string]interface{}{"id": "Q907311", "labels": enLabel("Netflix")},
	})

	draft, err := b.BuildDraft(context.Background(), "Q500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(draft.SuggestedServiceNames) != 1 || draft.SuggestedServiceNames[0] != "AMC" {
		t.Fatalf("services = %v, distributor must never merge in", draft.SuggestedServiceNames)
	}
}

func TestBuildDraftMissingEntity(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, nil)

	_, err := b.BuildDraft(context.Background(), "Q999999999")
	if !errors.Is(err, ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestBuildDraftBareEntityDefaults(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q600": map[string]interface{}{"id": "Q600"},
	})

	draft, err := b.BuildDraft(context.Background(), "Q600")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if draft.Name != "Unknown" {
		t.Fatalf("name = %q, want Unknown", draft.Name)
	}
	if draft.ReleaseDate != nil {
		t.Fatalf("release date = %v, want nil", draft.ReleaseDate)
	}
	if !draft.Running {
		t.Fatal("bare entity defaults to running")
	}
	if draft.TotalSeasons != 1 {
		t.Fatalf("seasons = %d, want 1", draft.TotalSeasons)
	}
	if len(draft.ExternalRefs) != 1 {
		t.Fatalf("expected only the wikidata ref, got %d", len(draft.ExternalRefs))
	}
}
