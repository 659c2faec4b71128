package services

import (
	"github.com/ersonp/novelstate/internal/domain/entities"
)

// MergeRelationships merges incoming relationship records into current,
// keyed by the unordered normalized subject pair: (A,B) and (B,A) collide.
// An incoming record replaces the stored one wholesale, keeping its own
// left/right subject ordering. Records with a blank subject on either
// side are dropped.
func MergeRelationships(current, incoming []entities.RelationshipRecord) []entities.RelationshipRecord {
	if len(incoming) == 0 {
		return current
	}

	out := make([]entities.RelationshipRecord, len(current))
	copy(out, current)

	index := make(map[string]int, len(out))
	for i := range out {
		index[out[i].PairKey()] = i
	}

	for _, in := range incoming {
		if entities.NormalizeName(in.SubjectA) == "" || entities.NormalizeName(in.SubjectB) == "" {
			continue
		}
		k := in.PairKey()
		if i, ok := index[k]; ok {
			out[i] = in
			continue
		}
		index[k] = len(out)
		out = append(out, in)
	}

	return out
}
