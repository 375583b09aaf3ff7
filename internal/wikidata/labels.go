package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// wbgetentities caps a single request at 50 ids.
const maxLabelBatch = 50

// ResolveLabels fetches display labels for a set of item ids in one batched
// request per 50 ids. Label selection per id: en label, then the "mul"
// multilingual label, then the first en alias, then the first label in any
// language. Ids with no label anywhere are omitted from the result. Any
// request failure yields an empty (or partial) map, never an error.
func (c *Client) ResolveLabels(ctx context.Context, ids []string) map[string]string {
	labels := make(map[string]string, len(ids))
	for start := 0; start < len(ids); start += maxLabelBatch {
		end := start + maxLabelBatch
		if end > len(ids) {
			end = len(ids)
		}
		c.resolveBatch(ctx, ids[start:end], labels)
	}
	return labels
}

func (c *Client) resolveBatch(ctx context.Context, ids []string, out map[string]string) {
	if len(ids) == 0 {
		return
	}

	reqURL := fmt.Sprintf("%s?action=wbgetentities&format=json&props=labels%%7Caliases&ids=%s",
		c.baseURL, url.QueryEscape(strings.Join(ids, "|")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return
	}
	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("wikidata: resolve labels: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("wikidata: resolve labels returned %d", resp.StatusCode)
		return
	}

	var result entitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("wikidata: decode labels: %v", err)
		return
	}

	for _, id := range ids {
		entity, ok := result.Entities[id]
		if !ok || entity.Missing != nil {
			continue
		}
		if label, ok := pickLabel(&entity); ok {
			out[id] = label
		}
	}
}

func pickLabel(entity *Entity) (string, bool) {
	if l := entity.Labels["en"].Value; l != "" {
		return l, true
	}
	if l := entity.Labels["mul"].Value; l != "" {
		return l, true
	}
	for _, alias := range entity.Aliases["en"] {
		if alias.Value != "" {
			return alias.Value, true
		}
	}
	for _, l := range entity.Labels {
		if l.Value != "" {
			return l.Value, true
		}
	}
	return "", false
}
