package importer

import "strings"

// Candidate is one entry of a canonical vocabulary (service or tag).
type Candidate struct {
	ID   int
	Name string
}

// MatchSuggestions proposes canonical ids for free-text suggestion names.
// A name matches a candidate when either lowercased string contains the
// other, so "HBO" matches "HBO Max" and vice versa. Names are
// processed in order; the first candidate (in canonical order) wins; a
// candidate id is proposed at most once. The output is a pre-filled
// suggestion for a human to confirm, never an authoritative write.
func MatchSuggestions(suggested []string, canonical []Candidate) []int {
	var ids []int
	seen := make(map[int]bool)
	for _, name := range suggested {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			continue
		}
		for _, cand := range canonical {
			if seen[cand.ID] {
				continue
			}
			candLower := strings.ToLower(cand.Name)
			if strings.Contains(candLower, lower) || strings.Contains(lower, candLower) {
				ids = append(ids, cand.ID)
				seen[cand.ID] = true
				break
			}
		}
	}
	return ids
}
