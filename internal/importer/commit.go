package importer

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/kmartindale/SceneIt/internal/models"
)

// Store is the storage surface the commit step needs. The concrete
// implementation lives in the repository package; tests use a fake.
type Store interface {
	FindShowIDByExternalRef(source models.RefSource, externalID string) (*uuid.UUID, error)
	OtherServiceID() (int, error)
	CreateShow(show *models.Show) error
	AddShowServices(showID uuid.UUID, serviceIDs []int) error
	AddShowTags(showID uuid.UUID, tagIDs []int) error
	AddExternalRef(ref *models.ExternalRef) error
}

// Notifier dispatches the post-commit downstream notification. It must not
// block; failures are the notifier's problem, never the import's.
type Notifier interface {
	NotifyShowImported(showID uuid.UUID)
}

// CreatePayload is the user-confirmed form of a Draft, consumed exactly once.
type CreatePayload struct {
	Name         string                `json:"name"`
	ReleaseDate  *time.Time            `json:"release_date,omitempty"`
	Running      bool                  `json:"running"`
	TotalSeasons int                   `json:"total_seasons"`
	ServiceIDs   []int                 `json:"service_ids"`
	TagIDs       []int                 `json:"tag_ids"`
	ExternalRefs []*models.ExternalRef `json:"external_refs"`
}

// DuplicateError reports that the primary external id is already linked to a
// local show. Recoverable: the caller can offer "view existing show".
type DuplicateError struct {
	ExistingShowID uuid.UUID
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("show already imported as %s", e.ExistingShowID)
}

// Importer commits confirmed import payloads.
type Importer struct {
	store    Store
	notifier Notifier
}

func NewImporter(store Store, notifier Notifier) *Importer {
	return &Importer{store: store, notifier: notifier}
}

// Commit runs the import state machine: duplicate check, show insert,
// relationship inserts, external-reference inserts, downstream notification.
// The show insert is the only fatal step; later insert failures leave a show
// without some cross-references and are logged, not rolled back.
func (im *Importer) Commit(payload *CreatePayload) (uuid.UUID, error) {
	primary := primaryRef(payload.ExternalRefs)
	if primary != nil {
		existing, err := im.store.FindShowIDByExternalRef(primary.Source, primary.ExternalID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("duplicate check: %w", err)
		}
		if existing != nil {
			return uuid.Nil, &DuplicateError{ExistingShowID: *existing}
		}
	}

	// Older schema consumers still read a single primary service column.
	serviceID := 0
	if len(payload.ServiceIDs) > 0 {
		serviceID = payload.ServiceIDs[0]
	} else {
		other, err := im.store.OtherServiceID()
		if err != nil {
			return uuid.Nil, fmt.Errorf("resolve fallback service: %w", err)
		}
		serviceID = other
	}

	totalSeasons := payload.TotalSeasons
	if totalSeasons < 1 {
		totalSeasons = 1
	}

	show := &models.Show{
		ID:           uuid.New(),
		Name:         payload.Name,
		ReleaseDate:  payload.ReleaseDate,
		Running:      payload.Running,
		TotalSeasons: totalSeasons,
		ServiceID:    serviceID,
	}
	if err := im.store.CreateShow(show); err != nil {
		return uuid.Nil, fmt.Errorf("create show: %w", err)
	}

	if len(payload.ServiceIDs) > 0 {
		if err := im.store.AddShowServices(show.ID, payload.ServiceIDs); err != nil {
			log.Printf("importer: link services for %s: %v", show.ID, err)
		}
	}
	if len(payload.TagIDs) > 0 {
		if err := im.store.AddShowTags(show.ID, payload.TagIDs); err != nil {
			log.Printf("importer: link tags for %s: %v", show.ID, err)
		}
	}

	for _, ref := range payload.ExternalRefs {
		r := *ref
		r.ShowID = show.ID
		if err := im.store.AddExternalRef(&r); err != nil {
			log.Printf("importer: add %s ref for %s: %v", r.Source, show.ID, err)
		}
	}

	if im.notifier != nil {
		im.notifier.NotifyShowImported(show.ID)
	}

	return show.ID, nil
}

// primaryRef picks the knowledge-base ref the duplicate invariant is keyed
// on; any ref serves when no wikidata ref is present.
func primaryRef(refs []*models.ExternalRef) *models.ExternalRef {
	for _, ref := range refs {
		if ref.Source == models.SourceWikidata {
			return ref
		}
	}
	if len(refs) > 0 {
		return refs[0]
	}
	return nil
}
