package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kmartindale/SceneIt/internal/cache"
)

// Wikidata property ids consulted by the import pipeline.
const (
	PropStartTime       = "P580"
	PropEndTime         = "P582"
	PropPublicationDate = "P577"
	PropSeasonCount     = "P2437"
	PropEpisodeCount    = "P1113"
	PropBroadcaster     = "P449"
	PropDistributor     = "P750"
	PropGenre           = "P136"
)

// Client talks to the Wikidata Action API.
type Client struct {
	baseURL   string
	client    *http.Client
	cache     *cache.Cache
	searchTTL time.Duration
	entityTTL time.Duration
}

func NewClient(baseURL string, c *cache.Cache, searchTTL, entityTTL time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		cache:     c,
		searchTTL: searchTTL,
		entityTTL: entityTTL,
	}
}

// SearchCandidate is one ranked match from the entity search endpoint.
type SearchCandidate struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type searchResponse struct {
	Search []struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
	} `json:"search"`
}

// Search returns ranked entity candidates for a free-text query. Queries
// shorter than two characters return nothing without a network call, and any
// transport or decode failure degrades to an empty result.
func (c *Client) Search(ctx context.Context, query string) []SearchCandidate {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil
	}

	key := "wd:search:" + strings.ToLower(query)
	var cached []SearchCandidate
	if c.cache != nil && c.cache.Get(ctx, key, &cached) {
		return cached
	}

	reqURL := fmt.Sprintf("%s?action=wbsearchentities&format=json&type=item&language=en&uselang=en&limit=10&search=%s",
		c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil
	}
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("wikidata: search %q: %v", query, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("wikidata: search %q returned %d", query, resp.StatusCode)
		return nil
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("wikidata: decode search %q: %v", query, err)
		return nil
	}

	candidates := make([]SearchCandidate, 0, len(result.Search))
	for _, s := range result.Search {
		candidates = append(candidates, SearchCandidate{
			ID:          s.ID,
			Label:       s.Label,
			Description: s.Description,
		})
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, candidates, c.searchTTL)
	}
	return candidates
}

// ──────────────────── Entity documents ────────────────────

type Label struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type Sitelink struct {
	Site  string `json:"site"`
	Title string `json:"title"`
}

type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type Snak struct {
	SnakType  string     `json:"snaktype"`
	DataValue *DataValue `json:"datavalue"`
}

type Claim struct {
	MainSnak Snak   `json:"mainsnak"`
	Rank     string `json:"rank"`
}

// Entity is a Wikidata item document, trimmed to the parts the pipeline reads.
type Entity struct {
	ID        string              `json:"id"`
	Labels    map[string]Label    `json:"labels"`
	Aliases   map[string][]Label  `json:"aliases"`
	Claims    map[string][]Claim  `json:"claims"`
	Sitelinks map[string]Sitelink `json:"sitelinks"`
	Missing   *json.RawMessage    `json:"missing,omitempty"`
}

type entitiesResponse struct {
	Entities map[string]Entity `json:"entities"`
}

// GetEntity fetches the full claims/labels/sitelinks document for one item.
// A missing entity yields (nil, nil); transport and decode failures are
// returned as errors.
func (c *Client) GetEntity(ctx context.Context, id string) (*Entity, error) {
	key := "wd:entity:" + id
	var cached Entity
	if c.cache != nil && c.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	reqURL := fmt.Sprintf("%s?action=wbgetentities&format=json&props=claims%%7Clabels%%7Caliases%%7Csitelinks&ids=%s",
		c.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch entity %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entity request for %s returned %d", id, resp.StatusCode)
	}

	var result entitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode entity %s: %w", id, err)
	}

	entity, ok := result.Entities[id]
	if !ok || entity.Missing != nil {
		return nil, nil
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, entity, c.entityTTL)
	}
	return &entity, nil
}

// ──────────────────── Claim accessors ────────────────────

type timeValue struct {
	Time string `json:"time"`
}

type quantityValue struct {
	Amount string `json:"amount"`
}

type entityIDValue struct {
	ID string `json:"id"`
}

// FirstTime returns the first parseable time value of the given property.
func (e *Entity) FirstTime(prop string) (time.Time, bool) {
	for _, claim := range e.Claims[prop] {
		dv := claim.MainSnak.DataValue
		if dv == nil {
			continue
		}
		var tv timeValue
		if err := json.Unmarshal(dv.Value, &tv); err != nil {
			continue
		}
		if t, ok := parseWikidataTime(tv.Time); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// FirstQuantity returns the first integer quantity value of the given property.
func (e *Entity) FirstQuantity(prop string) (int, bool) {
	for _, claim := range e.Claims[prop] {
		dv := claim.MainSnak.DataValue
		if dv == nil {
			continue
		}
		var qv quantityValue
		if err := json.Unmarshal(dv.Value, &qv); err != nil {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(qv.Amount, "+"))
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// EntityIDs returns every referenced item id of the given property, in claim
// order.
func (e *Entity) EntityIDs(prop string) []string {
	var ids []string
	for _, claim := range e.Claims[prop] {
		dv := claim.MainSnak.DataValue
		if dv == nil {
			continue
		}
		var ev entityIDValue
		if err := json.Unmarshal(dv.Value, &ev); err != nil || ev.ID == "" {
			continue
		}
		ids = append(ids, ev.ID)
	}
	return ids
}

// HasClaim reports whether the property carries at least one value snak.
func (e *Entity) HasClaim(prop string) bool {
	for _, claim := range e.Claims[prop] {
		if claim.MainSnak.DataValue != nil {
			return true
		}
	}
	return false
}

// EnglishLabel returns the en label or "" when absent.
func (e *Entity) EnglishLabel() string {
	return e.Labels["en"].Value
}

// WikipediaURL derives the English Wikipedia article URL from the enwiki
// sitelink, if one exists.
func (e *Entity) WikipediaURL() string {
	link, ok := e.Sitelinks["enwiki"]
	if !ok || link.Title == "" {
		return ""
	}
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(link.Title, " ", "_"))
}

// parseWikidataTime handles timestamps like "+2013-09-29T00:00:00Z". Values
// with zeroed month/day (year or decade precision) fall back to January 1st
// of the stated year.
func parseWikidataTime(s string) (time.Time, bool) {
	s = strings.TrimPrefix(s, "+")
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if len(s) >= 4 {
		if year, err := strconv.Atoi(s[:4]); err == nil && year > 0 {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
