package sim

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeedbackStore_ShipsManualSeeds(t *testing.T) {
	// GIVEN a fresh store
	s := NewFeedbackStore()

	// THEN the nine curated specials are present with manual provenance
	assert.Equal(t, 9, s.Len())
	rec, ok := s.Get("manual-6")
	require.True(t, ok)
	assert.Equal(t, LabelSpecial, rec.Label)
	assert.Equal(t, SourceManual, rec.Source)
	assert.True(t, rec.Params.Invert)

	// AND they already satisfy the perturbation sampling gate
	assert.GreaterOrEqual(t, len(s.Specials()), minSpecialsForPerturb)
}

func TestFeedbackStore_AutoTag_NeverOverwritesManualSeed(t *testing.T) {
	s := NewFeedbackStore()

	// WHEN auto-tagging tries to demote a curated seed
	written := s.AutoTag("manual-1", LabelNormal, Params{}, MetricsVector{}, VitalityDormant, 0.1)

	// THEN the write is refused
	assert.False(t, written)
	rec, _ := s.Get("manual-1")
	assert.Equal(t, LabelSpecial, rec.Label)
	assert.Equal(t, SourceManual, rec.Source)
}

func TestFeedbackStore_AutoTag_SameLabelIsNoOp(t *testing.T) {
	s := NewFeedbackStore()
	require.True(t, s.AutoTag("c1", LabelSpecial, Params{Feed: 0.03}, MetricsVector{}, VitalityBalanced, 0.6))
	first, _ := s.Get("c1")

	// WHEN re-tagged with the same label
	written := s.AutoTag("c1", LabelSpecial, Params{Feed: 0.99}, MetricsVector{}, VitalityChaotic, 0.1)

	// THEN nothing changes, including the original params and timestamp
	assert.False(t, written)
	second, _ := s.Get("c1")
	assert.Equal(t, first, second)
}

func TestFeedbackStore_AutoTag_CanFlipOwnLabel(t *testing.T) {
	// An auto record may be rewritten by auto-tagging with a different label
	// (thresholds moved between scans).
	s := NewFeedbackStore()
	require.True(t, s.AutoTag("c1", LabelSpecial, Params{}, MetricsVector{}, VitalityBalanced, 0.6))

	written := s.AutoTag("c1", LabelNormal, Params{}, MetricsVector{}, VitalityDormant, 0.1)

	assert.True(t, written)
	rec, _ := s.Get("c1")
	assert.Equal(t, LabelNormal, rec.Label)
}

func TestFeedbackStore_LabelUser_SupersedesEverything(t *testing.T) {
	s := NewFeedbackStore()

	// WHEN the user relabels a curated seed
	s.LabelUser("manual-2", LabelNormal, Params{}, MetricsVector{}, VitalityDormant, 0.2, "not that special")

	// THEN the user record replaced it
	rec, _ := s.Get("manual-2")
	assert.Equal(t, LabelNormal, rec.Label)
	assert.Equal(t, SourceUser, rec.Source)
	assert.Equal(t, "not that special", rec.Note)
}

func TestFeedbackStore_Remove(t *testing.T) {
	s := NewFeedbackStore()
	s.Remove("manual-3")
	_, ok := s.Get("manual-3")
	assert.False(t, ok)
	assert.Equal(t, 8, s.Len())
}

func TestFeedbackStore_SetBookmarks_DerivesSpecialRecords(t *testing.T) {
	// GIVEN bookmark entries from the external collaborator
	s := NewFeedbackStore()
	entries := []BookmarkPayload{
		{ID: "bm-1", Params: Params{Feed: 0.03}, Timestamp: time.Unix(1000, 0)},
		{ID: "bm-2", Params: Params{Feed: 0.05}, Timestamp: time.Unix(2000, 0)},
	}

	// WHEN the entries-changed notification arrives
	s.SetBookmarks(entries)

	// THEN each bookmark contributes an implicit special record
	rec, ok := s.Get("bm-1")
	require.True(t, ok)
	assert.Equal(t, LabelSpecial, rec.Label)
	assert.Equal(t, SourceBookmark, rec.Source)
	assert.Equal(t, 11, s.Len())

	// AND a later notification replaces the derived set
	s.SetBookmarks(entries[:1])
	_, ok = s.Get("bm-2")
	assert.False(t, ok)
	assert.Equal(t, 10, s.Len())
}

func TestFeedbackStore_Specials_StableOrder(t *testing.T) {
	s := NewFeedbackStore()
	first := s.Specials()
	second := s.Specials()
	assert.Equal(t, first, second)
	assert.Len(t, first, 9)
}

func TestFeedbackStore_Export_SortedAndStable(t *testing.T) {
	// GIVEN a store with mixed provenance and timestamps
	s := NewFeedbackStore()
	now := time.Unix(5000, 0)
	s.now = func() time.Time { return now }
	s.LabelUser("zzz", LabelSpecial, Params{}, MetricsVector{}, VitalityStructured, 0.9, "")
	s.AutoTag("aaa", LabelNormal, Params{}, MetricsVector{}, VitalityDormant, 0.1)

	// WHEN exported twice
	first := s.Export()
	second := s.Export()

	// THEN the order is deterministic: notedAt ascending, then id
	require.Len(t, first, 11)
	assert.Equal(t, first, second)
	assert.Equal(t, "manual-1", first[0].ID) // zero timestamps sort first, id breaks the tie
	assert.Equal(t, "aaa", first[9].ID)      // equal timestamps fall back to id order
	assert.Equal(t, "zzz", first[10].ID)
}

func TestFeedbackStore_ExportJSON_Shape(t *testing.T) {
	// GIVEN a store with one user record
	s := NewFeedbackStore()
	s.LabelUser("cand", LabelSpecial, Params{Feed: 0.042}, MetricsVector{Entropy: 1.5}, VitalityStructured, 0.8, "keeper")

	// WHEN serialized
	data, err := s.ExportJSON()
	require.NoError(t, err)

	// THEN it is a flat JSON array of record objects with the agreed keys
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 10)

	last := decoded[len(decoded)-1]
	assert.Equal(t, "cand", last["id"])
	assert.Equal(t, "special", last["label"])
	assert.Equal(t, "user", last["source"])
	assert.Equal(t, "keeper", last["note"])
	assert.Contains(t, last, "notedAt")
	assert.Contains(t, last, "params")
	assert.Contains(t, last, "metrics")
	assert.Contains(t, last, "classification")
	assert.Contains(t, last, "score")
}
