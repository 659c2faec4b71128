package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase unchanged",
			input:    "alice",
			expected: "alice",
		},
		{
			name:     "uppercase folded",
			input:    "Lâm Phong",
			expected: "lâm phong",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  lý thanh \t",
			expected: "lý thanh",
		},
		{
			name:     "whitespace only collapses to empty",
			input:    "   ",
			expected: "",
		},
		{
			name:     "empty stays empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestRelationshipRecord_PairKey(t *testing.T) {
	ab := RelationshipRecord{SubjectA: "Lâm Phong", SubjectB: "Vương Nhị"}
	ba := RelationshipRecord{SubjectA: "vương nhị ", SubjectB: "LÂM PHONG"}

	assert.Equal(t, ab.PairKey(), ba.PairKey(), "pair key must be order- and case-insensitive")
	assert.Equal(t, "lâm phong--vương nhị", ab.PairKey())
}

func TestSnapshot_IsEmpty(t *testing.T) {
	var nilSnap *Snapshot
	assert.True(t, nilSnap.IsEmpty())
	assert.True(t, (&Snapshot{}).IsEmpty())
	assert.False(t, (&Snapshot{RealmTier: "Trúc Cơ"}).IsEmpty())
	assert.False(t, (&Snapshot{Status: &CharacterStatus{Name: "Lâm Phong"}}).IsEmpty())
	assert.False(t, (&Snapshot{NPCs: []NamedEntity{{Name: "Vương Nhị"}}}).IsEmpty())
}

func TestSnapshot_Clone_Independence(t *testing.T) {
	original := &Snapshot{
		Status: &CharacterStatus{
			Name:   "Lâm Phong",
			Traits: []CharacterTrait{{Name: "Kiên Nhẫn", Description: "bền bỉ"}},
		},
		RealmTier:   "Luyện Khí",
		RealmSystem: []string{"Luyện Khí", "Trúc Cơ", "Kim Đan"},
		NPCs: []NamedEntity{
			{Name: "Vương Nhị", Description: "bạn", Status: StatusActive},
		},
		Locations: []Location{
			{Name: "Thanh Vân Môn", Tier: "tông môn"},
		},
		CurrentLocationName: "Thanh Vân Môn",
		Relationships: []RelationshipRecord{
			{SubjectA: "Lâm Phong", SubjectB: "Vương Nhị", Description: "đồng minh"},
		},
	}

	clone := original.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, original, clone)

	// Mutating the clone must not leak into the original.
	clone.Status.Name = "changed"
	clone.Status.Traits[0].Description = "changed"
	clone.RealmSystem[0] = "changed"
	clone.NPCs[0].Status = StatusDead
	clone.Locations[0].Name = "changed"
	clone.Relationships[0].Description = "changed"

	assert.Equal(t, "Lâm Phong", original.Status.Name)
	assert.Equal(t, "bền bỉ", original.Status.Traits[0].Description)
	assert.Equal(t, "Luyện Khí", original.RealmSystem[0])
	assert.Equal(t, StatusActive, original.NPCs[0].Status)
	assert.Equal(t, "Thanh Vân Môn", original.Locations[0].Name)
	assert.Equal(t, "đồng minh", original.Relationships[0].Description)
}

func TestSnapshot_Clone_Nil(t *testing.T) {
	var s *Snapshot
	assert.Nil(t, s.Clone())
}

func TestChapterRef_Prev(t *testing.T) {
	ref := ChapterRef{StoryID: "s1", Index: 5, URL: "https://example.com/5"}
	prev := ref.Prev()
	assert.Equal(t, "s1", prev.StoryID)
	assert.Equal(t, 4, prev.Index)
	assert.Empty(t, prev.URL)
}

func TestChapterEntry_Analyzed(t *testing.T) {
	var nilEntry *ChapterEntry
	assert.False(t, nilEntry.Analyzed())
	assert.False(t, (&ChapterEntry{Content: "text"}).Analyzed())
	assert.True(t, (&ChapterEntry{Content: "text", Snapshot: &Snapshot{}}).Analyzed())
}
