package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/novelstate/internal/domain/entities"
)

func TestBuildLocationTree_Hierarchy(t *testing.T) {
	locations := []entities.Location{
		{Name: "Đông Châu"},
		{Name: "Thanh Vân Môn", ParentName: "Đông Châu"},
		{Name: "Hậu Sơn", ParentName: "Thanh Vân Môn"},
		{Name: "Tây Vực"},
	}

	roots := BuildLocationTree(locations)
	require.Len(t, roots, 2)

	assert.Equal(t, "Đông Châu", roots[0].Location.Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Thanh Vân Môn", roots[0].Children[0].Location.Name)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "Hậu Sơn", roots[0].Children[0].Children[0].Location.Name)

	assert.Equal(t, "Tây Vực", roots[1].Location.Name)
	assert.Empty(t, roots[1].Children)
}

func TestBuildLocationTree_ParentMatchIsExactString(t *testing.T) {
	// Parent linking is case-sensitive exact match, unlike merge identity.
	locations := []entities.Location{
		{Name: "Đông Châu"},
		{Name: "Thanh Vân Môn", ParentName: "đông châu"},
	}

	roots := BuildLocationTree(locations)
	require.Len(t, roots, 2, "a case-mismatched parent reference must not attach")
}

func TestBuildLocationTree_DanglingParentsBecomeRoots(t *testing.T) {
	locations := []entities.Location{
		{Name: "A", ParentName: "Missing One"},
		{Name: "B", ParentName: "Missing Two"},
	}

	roots := BuildLocationTree(locations)
	require.Len(t, roots, 2, "dangling references must yield a flat all-root list")
	assert.Empty(t, roots[0].Children)
	assert.Empty(t, roots[1].Children)
}

func TestBuildLocationTree_SelfReferenceIsRoot(t *testing.T) {
	locations := []entities.Location{{Name: "Ouroboros", ParentName: "Ouroboros"}}

	roots := BuildLocationTree(locations)
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Children)
}

func TestBuildLocationTree_CycleFallsBackToFlatList(t *testing.T) {
	locations := []entities.Location{
		{Name: "A", ParentName: "B"},
		{Name: "B", ParentName: "A"},
	}

	roots := BuildLocationTree(locations)
	require.Len(t, roots, 2, "a pure cycle must degrade to a flat list, not an empty tree")
	assert.Empty(t, roots[0].Children)
	assert.Empty(t, roots[1].Children)
}

func TestBuildLocationTree_Empty(t *testing.T) {
	assert.Nil(t, BuildLocationTree(nil))
}

func TestValidateCurrentLocation(t *testing.T) {
	snap := &entities.Snapshot{
		Locations:           []entities.Location{{Name: "Thanh Vân Môn"}},
		CurrentLocationName: "thanh vân môn",
	}
	assert.True(t, ValidateCurrentLocation(snap), "validation is by identity key, case-insensitive")

	snap.CurrentLocationName = "Nowhere"
	assert.False(t, ValidateCurrentLocation(snap))

	snap.CurrentLocationName = ""
	assert.True(t, ValidateCurrentLocation(snap))
	assert.True(t, ValidateCurrentLocation(nil))
}
