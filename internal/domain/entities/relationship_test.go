package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipRecord_PairKey_DirectionInsensitive(t *testing.T) {
	rel := RelationshipRecord{SubjectA: "Hàn Lập", SubjectB: "Nam Cung Uyển"}
	flipped := RelationshipRecord{SubjectA: "nam cung uyển", SubjectB: "  HÀN LẬP "}

	assert.Equal(t, rel.PairKey(), flipped.PairKey(), "pair key is direction and case insensitive")
	assert.Equal(t, "hàn lập--nam cung uyển", rel.PairKey())
}
