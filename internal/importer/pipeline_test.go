package importer

import (
	"context"
	"testing"
)

// Exercises the whole pipeline: entity fetch, draft extraction, suggestion
// matching against the canonical vocabularies, and commit.
func TestImportPipelineEndToEnd(t *testing.T) {
	t.Parallel()

	b := newTestBuilder(t, map[string]interface{}{
		"Q23572": map[string]interface{}{
			"id":     "Q23572",
			"labels": enLabel("The Wire"),
			"claims": map[string]interface{}{
				"P580":  []interface{}{timeClaim("+2002-06-02T00:00:00Z")},
				"P582":  []interface{}{timeClaim("+2008-03-09T00:00:00Z")},
				"P2437": []interface{}{quantityClaim("+5")},
				"P449":  []interface{}{itemClaim("Q212329")},
				"P136":  []interface{}{itemClaim("Q959790")},
			},
			"sitelinks": map[string]interface{}{
				"enwiki": map[string]interface{}{"site": "enwiki", "title": "The Wire"},
			},
		},
		"Q212329": map[string]interface{}{"id": "Q212329", "labels": enLabel("HBO")},
		"Q959790": map[string]interface{}{"id": "Q959790", "labels": enLabel("crime drama")},
	})

	draft, err := b.BuildDraft(context.Background(), "Q23572")
	if err != nil {
		t.Fatalf("build draft: %v", err)
	}

	services := []Candidate{{ID: 1, Name: "Other"}, {ID: 3, Name: "HBO"}, {ID: 2, Name: "Netflix"}}
	tags := []Candidate{{ID: 10, Name: "Drama"}, {ID: 11, Name: "Crime"}}

	serviceIDs := MatchSuggestions(draft.SuggestedServiceNames, services)
	if len(serviceIDs) != 1 || serviceIDs[0] != 3 {
		t.Fatalf("service suggestions = %v, want [3]", serviceIDs)
	}
	tagIDs := MatchSuggestions(draft.SuggestedTagNames, tags)
	if len(tagIDs) != 1 || tagIDs[0] != 10 {
		t.Fatalf("tag suggestions = %v, want [10]", tagIDs)
	}

	store := &fakeStore{otherID: 1}
	notifier := &fakeNotifier{}
	im := NewImporter(store, notifier)

	showID, err := im.Commit(&CreatePayload{
		Name:         draft.Name,
		ReleaseDate:  draft.ReleaseDate,
		Running:      draft.Running,
		TotalSeasons: draft.TotalSeasons,
		ServiceIDs:   serviceIDs,
		TagIDs:       tagIDs,
		ExternalRefs: draft.ExternalRefs,
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	show := store.createdShow
	if show == nil || show.ID != showID {
		t.Fatalf("show row not created")
	}
	if show.Name != "The Wire" || show.Running || show.TotalSeasons != 5 {
		t.Fatalf("show = %+v", show)
	}
	if show.ServiceID != 3 {
		t.Fatalf("primary service = %d, want first confirmed service", show.ServiceID)
	}
	if len(store.refs) != 2 {
		t.Fatalf("expected wikidata and wikipedia refs, got %d", len(store.refs))
	}
	for _, ref := range store.refs {
		if ref.ShowID != showID {
			t.Fatalf("ref %s not stamped with the new show id", ref.Source)
		}
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != showID {
		t.Fatalf("downstream notification = %v", notifier.notified)
	}

	// A second commit of the same entity is refused once the store knows it.
	store.existing = &showID
	if _, err := im.Commit(&CreatePayload{
		Name:         draft.Name,
		ExternalRefs: draft.ExternalRefs,
	}); err == nil {
		t.Fatal("re-import of the same entity accepted")
	}
}
