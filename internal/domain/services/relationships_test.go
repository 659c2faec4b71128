package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

func TestMergeRelationships_UnorderedPairCollision(t *testing.T) {
	current := []entities.RelationshipRecord{
		{SubjectA: "Lâm Phong", SubjectB: "Vương Nhị", Description: "Đồng Minh"},
	}
	incoming := []entities.RelationshipRecord{
		{SubjectA: "Vương Nhị", SubjectB: "Lâm Phong", Description: "Thù Địch"},
	}

	merged := MergeRelationships(current, incoming)
	require.Len(t, merged, 1, "(A,B) and (B,A) must collapse to one record")

	// The incoming record wins wholesale, keeping its own subject order.
	assert.Equal(t, "Vương Nhị", merged[0].SubjectA)
	assert.Equal(t, "Lâm Phong", merged[0].SubjectB)
	assert.Equal(t, "Thù Địch", merged[0].Description)
}

func TestMergeRelationships_InsertNewPairs(t *testing.T) {
	current := []entities.RelationshipRecord{
		{SubjectA: "A", SubjectB: "B", Description: "one"},
	}
	incoming := []entities.RelationshipRecord{
		{SubjectA: "C", SubjectB: "D", Description: "two"},
		{SubjectA: "b", SubjectB: "a", Description: "updated"},
	}

	merged := MergeRelationships(current, incoming)
	require.Len(t, merged, 2)
	assert.Equal(t, "updated", merged[0].Description)
	assert.Equal(t, "two", merged[1].Description)
}

func TestMergeRelationships_BlankSubjectsDropped(t *testing.T) {
	incoming := []entities.RelationshipRecord{
		{SubjectA: " ", SubjectB: "B", Description: "no left subject"},
		{SubjectA: "A", SubjectB: "", Description: "no right subject"},
		{SubjectA: "A", SubjectB: "B", Description: "kept"},
	}

	merged := MergeRelationships(nil, incoming)
	require.Len(t, merged, 1)
	assert.Equal(t, "kept", merged[0].Description)
}

func TestMergeRelationships_EmptyIncomingIsNoOp(t *testing.T) {
	current := []entities.RelationshipRecord{{SubjectA: "A", SubjectB: "B"}}
	assert.Equal(t, current, MergeRelationships(current, nil))
}
