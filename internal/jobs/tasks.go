package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/kmartindale/SceneIt/internal/importer"
	"github.com/kmartindale/SceneIt/internal/repository"
)

// ──────── Payloads ────────

type EmbeddingRefreshPayload struct {
	ShowID string `json:"show_id"`
}

type RefreshAiringPayload struct{}

// ──────── Embedding notifier ────────

// EmbeddingNotifier satisfies importer.Notifier by enqueueing a background
// task. The import never waits on, or learns about, the outcome.
type EmbeddingNotifier struct {
	queue *Queue
}

func NewEmbeddingNotifier(queue *Queue) *EmbeddingNotifier {
	return &EmbeddingNotifier{queue: queue}
}

func (n *EmbeddingNotifier) NotifyShowImported(showID uuid.UUID) {
	go func() {
		payload := EmbeddingRefreshPayload{ShowID: showID.String()}
		if err := n.queue.Enqueue(TaskEmbeddingRefresh, payload, asynq.Queue("low")); err != nil {
			log.Printf("jobs: enqueue embedding refresh for %s: %v", showID, err)
		}
	}()
}

// ──────── Embedding refresh handler ────────

// EmbeddingRefreshHandler pokes the recommender service so it recomputes
// embeddings for a newly imported show. Best effort.
type EmbeddingRefreshHandler struct {
	recommenderURL string
	client         *http.Client
}

func NewEmbeddingRefreshHandler(recommenderURL string) *EmbeddingRefreshHandler {
	return &EmbeddingRefreshHandler{
		recommenderURL: recommenderURL,
		client:         &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *EmbeddingRefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if h.recommenderURL == "" {
		return nil
	}

	var payload EmbeddingRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	body, _ := json.Marshal(map[string]string{"show_id": payload.ShowID})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.recommenderURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify recommender: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("recommender returned %d", resp.StatusCode)
	}
	log.Printf("jobs: embedding refresh dispatched for show %s", payload.ShowID)
	return nil
}

// ──────── Airing refresh handler ────────

// RefreshAiringHandler re-reads the knowledge base for every running show
// and flips the ones that have since gained an end date.
type RefreshAiringHandler struct {
	showRepo *repository.ShowRepository
	builder  *importer.Builder
}

func NewRefreshAiringHandler(showRepo *repository.ShowRepository, builder *importer.Builder) *RefreshAiringHandler {
	return &RefreshAiringHandler{showRepo: showRepo, builder: builder}
}

func (h *RefreshAiringHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	refs, err := h.showRepo.ListRunningWithWikidataRef()
	if err != nil {
		return fmt.Errorf("list running shows: %w", err)
	}

	ended := 0
	for _, ref := range refs {
		draft, err := h.builder.BuildDraft(ctx, ref.ExternalID)
		if err != nil {
			log.Printf("jobs: refresh %s (%s): %v", ref.ShowID, ref.ExternalID, err)
			continue
		}
		if draft.Running {
			continue
		}
		if err := h.showRepo.MarkEnded(ref.ShowID, draft.ReleaseDate); err != nil {
			log.Printf("jobs: mark ended %s: %v", ref.ShowID, err)
			continue
		}
		ended++
	}
	log.Printf("jobs: airing refresh checked %d shows, %d ended", len(refs), ended)
	return nil
}

// RegisterHandlers wires every task handler onto the queue mux.
func RegisterHandlers(q *Queue, showRepo *repository.ShowRepository, builder *importer.Builder, recommenderURL string) {
	q.RegisterHandler(TaskEmbeddingRefresh, NewEmbeddingRefreshHandler(recommenderURL))
	q.RegisterHandler(TaskRefreshAiring, NewRefreshAiringHandler(showRepo, builder))
}
