package gnd

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"gndfinder/internal/record"
)

type searchResponse struct {
	TotalItems int      `json:"totalItems"`
	Member     []member `json:"member"`
}

type member struct {
	GNDIdentifier          string       `json:"gndIdentifier"`
	ProfessionOrOccupation []profession `json:"professionOrOccupation"`
}

type profession struct {
	Label string `json:"label"`
}

func decodeSearchResponse(body []byte) (searchResponse, error) {
	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return searchResponse{}, fmt.Errorf("decode search response: %w", err)
	}
	return payload, nil
}

// professionSet matches occupation labels case-insensitively.
type professionSet map[string]struct{}

func newProfessionSet(labels []string) professionSet {
	fold := cases.Fold()
	set := make(professionSet, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		set[fold.String(label)] = struct{}{}
	}
	return set
}

func (s professionSet) matches(m member) bool {
	fold := cases.Fold()
	for _, p := range m.ProfessionOrOccupation {
		if _, ok := s[fold.String(strings.TrimSpace(p.Label))]; ok {
			return true
		}
	}
	return false
}

// matching collects identifiers of members holding an allowed profession.
func (r searchResponse) matching(allowed professionSet) record.IDSet {
	var ids record.IDSet
	if r.TotalItems <= 0 {
		return ids
	}
	for _, m := range r.Member {
		if allowed.matches(m) {
			ids.Add(m.GNDIdentifier)
		}
	}
	return ids
}

// all collects every identifier in the response.
func (r searchResponse) all() record.IDSet {
	var ids record.IDSet
	if r.TotalItems <= 0 {
		return ids
	}
	for _, m := range r.Member {
		ids.Add(m.GNDIdentifier)
	}
	return ids
}
