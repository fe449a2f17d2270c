package sim

import (
	"encoding/json"
	"sort"
	"time"
)

// Label is a feedback verdict on a candidate.
type Label string

const (
	LabelSpecial Label = "special"
	LabelNormal  Label = "normal"
)

// Source records how a feedback label came to be.
type Source string

const (
	// SourceUser is an explicit user verdict; it supersedes everything.
	SourceUser Source = "user"
	// SourceAuto is a threshold-based tag from the scan loop.
	SourceAuto Source = "auto"
	// SourceManual is a curated seed shipped with the trained model.
	SourceManual Source = "manual"
	// SourceBookmark is derived from an adopted bookmark entry.
	SourceBookmark Source = "bookmark"
)

// FeedbackRecord holds one labeled candidate. Params and metrics are
// retained so sampling can keep biasing toward a special even after the
// candidate itself leaves the queue.
type FeedbackRecord struct {
	ID             string        `json:"id"`
	Label          Label         `json:"label"`
	NotedAt        time.Time     `json:"notedAt"`
	Params         Params        `json:"params"`
	Metrics        MetricsVector `json:"metrics"`
	Classification Vitality      `json:"classification,omitempty"`
	Score          float64       `json:"score"`
	Source         Source        `json:"source"`
	Note           string        `json:"note,omitempty"`
}

// FeedbackStore is the single shared label map. It has one logical writer
// context (the sequential scan loop and the user actions dispatched from
// it), so no locking is needed; the overwrite rules in the mutators are the
// only conflict resolution.
type FeedbackStore struct {
	records map[string]FeedbackRecord
	now     func() time.Time
}

// NewFeedbackStore creates a store pre-seeded with the curated manual
// records the special model was trained on. Those seeds give perturbation
// sampling a population of specials before any user feedback exists.
func NewFeedbackStore() *FeedbackStore {
	s := &FeedbackStore{
		records: make(map[string]FeedbackRecord),
		now:     time.Now,
	}
	for _, r := range manualSeeds {
		s.records[r.ID] = r
	}
	return s
}

// Get returns the record for id, if any.
func (s *FeedbackStore) Get(id string) (FeedbackRecord, bool) {
	r, ok := s.records[id]
	return r, ok
}

// Len returns the number of stored records.
func (s *FeedbackStore) Len() int {
	return len(s.records)
}

// LabelUser writes a user verdict, superseding any existing record for the
// id regardless of prior provenance.
func (s *FeedbackStore) LabelUser(id string, label Label, p Params, m MetricsVector, class Vitality, score float64, note string) {
	s.records[id] = FeedbackRecord{
		ID:             id,
		Label:          label,
		NotedAt:        s.now(),
		Params:         p,
		Metrics:        m,
		Classification: class,
		Score:          score,
		Source:         SourceUser,
		Note:           note,
	}
}

// AutoTag writes an auto-assigned label, subject to the overwrite rules:
// a non-auto record is never overwritten, and re-tagging the same label is
// an idempotent no-op (the original timestamp stands). Returns true when a
// record was written.
func (s *FeedbackStore) AutoTag(id string, label Label, p Params, m MetricsVector, class Vitality, score float64) bool {
	if existing, ok := s.records[id]; ok {
		if existing.Source != SourceAuto {
			return false
		}
		if existing.Label == label {
			return false
		}
	}
	s.records[id] = FeedbackRecord{
		ID:             id,
		Label:          label,
		NotedAt:        s.now(),
		Params:         p,
		Metrics:        m,
		Classification: class,
		Score:          score,
		Source:         SourceAuto,
	}
	return true
}

// Remove deletes the record for id. Used when an originating bookmark is
// removed by the external collaborator; nothing else deletes records.
func (s *FeedbackStore) Remove(id string) {
	delete(s.records, id)
}

// SetBookmarks replaces all bookmark-derived records with one implicit
// "special" record per current bookmark entry, keyed by bookmark id.
func (s *FeedbackStore) SetBookmarks(entries []BookmarkPayload) {
	for id, r := range s.records {
		if r.Source == SourceBookmark {
			delete(s.records, id)
		}
	}
	for _, e := range entries {
		s.records[e.ID] = FeedbackRecord{
			ID:      e.ID,
			Label:   LabelSpecial,
			NotedAt: e.Timestamp,
			Params:  e.Params,
			Metrics: e.Metrics,
			Source:  SourceBookmark,
		}
	}
}

// Specials returns the parameter sets of every record labeled special, in
// stable id order. This is the population perturbation sampling mines.
func (s *FeedbackStore) Specials() []Params {
	ids := make([]string, 0, len(s.records))
	for id, r := range s.records {
		if r.Label == LabelSpecial {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	out := make([]Params, len(ids))
	for i, id := range ids {
		out[i] = s.records[id].Params
	}
	return out
}

// Export flattens the store to an ordered record list, sorted by notedAt
// then id so repeated exports of the same store are byte-identical.
func (s *FeedbackStore) Export() []FeedbackRecord {
	out := make([]FeedbackRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NotedAt.Equal(out[j].NotedAt) {
			return out[i].NotedAt.Before(out[j].NotedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ExportJSON serializes the store as a flat JSON array of records for
// external persistence or download.
func (s *FeedbackStore) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.Export(), "", "  ")
}

// manualSeeds are the user-curated specials the trained model ships with.
// Their parameters and metrics were captured from the interactive explorer;
// the zero timestamp keeps them first in exports.
var manualSeeds = []FeedbackRecord{
	{ID: "manual-1", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 0.041, Dv: 0.028, Feed: 0.015, Kill: 0.044, Dt: 2.0, Threshold: 0.21, Contrast: 2.45, Gamma: 0.4},
		Metrics: MetricsVector{Entropy: 0.34, StdU: 0.262, StdV: 0.074}},
	{ID: "manual-2", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 1.0, Dv: 0.266, Feed: 0.1, Kill: 0.054, Dt: 1.0, Threshold: 0.2, Contrast: 1.5, Gamma: 1.1},
		Metrics: MetricsVector{Entropy: 0.84, StdU: 0.208, StdV: 0.14}},
	{ID: "manual-3", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 1.0, Dv: 0.306, Feed: 0.023, Kill: 0.06, Dt: 1.0, Threshold: 0.2, Contrast: 1.5, Gamma: 1.1},
		Metrics: MetricsVector{Entropy: 1.35, StdU: 0.123, StdV: 0.125}},
	{ID: "manual-4", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 0.547, Dv: 0.089, Feed: 0.084, Kill: 0.077, Dt: 1.5, Threshold: 0.2, Contrast: 5.0, Gamma: 0.2},
		Metrics: MetricsVector{Entropy: 0.6, StdU: 0.201, StdV: 0.169}},
	{ID: "manual-5", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 0.621, Dv: 0.07, Feed: 0.1, Kill: 0.07, Dt: 1.5, Threshold: 0.2, Contrast: 5.0, Gamma: 0.2},
		Metrics: MetricsVector{Entropy: 1.24, StdU: 0.264, StdV: 0.25}},
	{ID: "manual-6", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 0.722, Dv: 0.08, Feed: 0.02, Kill: 0.056, Dt: 1.5, Threshold: 0.16, Contrast: 5.0, Gamma: 0.2, Invert: true},
		Metrics: MetricsVector{Entropy: 2.61, StdU: 0.116, StdV: 0.329}},
	{ID: "manual-7", Label: LabelSpecial, Source: SourceManual,
		Params: Params{Du: 0.621, Dv: 0.07, Feed: 0.003, Kill: 0.021, Dt: 1.5, Threshold: 0.2, Contrast: 5.0, Gamma: 0.2}},
	{ID: "manual-8", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 0.043, Dv: 0.009, Feed: 0.002, Kill: 0.021, Dt: 1.5, Threshold: 0.2, Contrast: 5.0, Gamma: 0.2},
		Metrics: MetricsVector{Entropy: 0.73, StdU: 0.339, StdV: 0.074}},
	{ID: "manual-9", Label: LabelSpecial, Source: SourceManual,
		Params:  Params{Du: 0.043, Dv: 0.009, Feed: 0.001, Kill: 0.026, Dt: 2.0, Threshold: 0.2, Contrast: 5.0, Gamma: 0.2},
		Metrics: MetricsVector{Entropy: 0.21, StdU: 0.272, StdV: 0.044}},
}
