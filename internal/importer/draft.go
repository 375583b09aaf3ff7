package importer

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/kmartindale/SceneIt/internal/models"
	"github.com/kmartindale/SceneIt/internal/wikidata"
)

// ErrEntityNotFound means the knowledge base has no item for the given id.
var ErrEntityNotFound = errors.New("entity not found")

// Episode counts above this are clearly not season counts and the fallback
// is rejected.
const maxEpisodeCountAsSeasons = 30

// Draft is the normalized, human-reviewable preview of an external entity
// before it becomes a local show record. Request-scoped, never persisted.
type Draft struct {
	ExternalID            string                `json:"external_id"`
	Name                  string                `json:"name"`
	ReleaseDate           *time.Time            `json:"release_date,omitempty"`
	Running               bool                  `json:"running"`
	TotalSeasons          int                   `json:"total_seasons"`
	SuggestedServiceNames []string              `json:"suggested_service_names"`
	SuggestedTagNames     []string              `json:"suggested_tag_names"`
	ExternalRefs          []*models.ExternalRef `json:"external_refs"`
}

// Builder turns a knowledge-base entity into a Draft.
type Builder struct {
	wd *wikidata.Client
}

func NewBuilder(wd *wikidata.Client) *Builder {
	return &Builder{wd: wd}
}

// BuildDraft fetches the entity record and extracts a Draft using the
// property-priority fallback chains. First populated source wins per field;
// sources are never merged. Label-resolution failures empty the affected
// suggestion list instead of aborting the draft.
func (b *Builder) BuildDraft(ctx context.Context, externalID string) (*Draft, error) {
	entity, err := b.wd.GetEntity(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}

	draft := &Draft{
		ExternalID:   externalID,
		Name:         "Unknown",
		TotalSeasons: 1,
	}
	if label := entity.EnglishLabel(); label != "" {
		draft.Name = label
	}

	// End of run, then start, then generic publication date.
	for _, prop := range []string{wikidata.PropEndTime, wikidata.PropStartTime, wikidata.PropPublicationDate} {
		if t, ok := entity.FirstTime(prop); ok {
			released := t
			draft.ReleaseDate = &released
			break
		}
	}

	// Open-world default: assume still running unless an end date exists.
	draft.Running = !entity.HasClaim(wikidata.PropEndTime)

	if n, ok := entity.FirstQuantity(wikidata.PropSeasonCount); ok && n >= 1 {
		draft.TotalSeasons = n
	} else if n, ok := entity.FirstQuantity(wikidata.PropEpisodeCount); ok && n >= 1 && n <= maxEpisodeCountAsSeasons {
		draft.TotalSeasons = n
	}

	// Broadcaster wins outright over distributor; the two are never merged.
	serviceIDs := entity.EntityIDs(wikidata.PropBroadcaster)
	if len(serviceIDs) == 0 {
		serviceIDs = entity.EntityIDs(wikidata.PropDistributor)
	}
	draft.SuggestedServiceNames = b.resolveNames(ctx, serviceIDs)
	draft.SuggestedTagNames = b.resolveNames(ctx, entity.EntityIDs(wikidata.PropGenre))

	wdURL := "https://www.wikidata.org/wiki/" + externalID
	draft.ExternalRefs = []*models.ExternalRef{
		{Source: models.SourceWikidata, ExternalID: externalID, URL: &wdURL},
	}
	if wpURL := entity.WikipediaURL(); wpURL != "" {
		title := entity.Sitelinks["enwiki"].Title
		draft.ExternalRefs = append(draft.ExternalRefs, &models.ExternalRef{
			Source:     models.SourceWikipedia,
			ExternalID: title,
			URL:        &wpURL,
		})
	}

	return draft, nil
}

// resolveNames batch-resolves one property group of referenced ids into
// labels, preserving claim order and dropping ids with no resolvable label.
func (b *Builder) resolveNames(ctx context.Context, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	labels := b.wd.ResolveLabels(ctx, ids)
	if len(labels) == 0 {
		log.Printf("importer: no labels resolved for %d referenced entities", len(ids))
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if label, ok := labels[id]; ok {
			names = append(names, label)
		}
	}
	return names
}
