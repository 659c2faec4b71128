// Package services contains domain business logic.
package services

import (
	"github.com/ersonp/novelstate/internal/domain/entities"
)

// mergeByKey upserts incoming records into current, keyed by identity.
// Existing records keep their relative order and are overwritten in place;
// new records are appended in incoming order. Records whose key is empty
// are dropped. Empty incoming returns current unchanged.
func mergeByKey[T any](current, incoming []T, key func(T) string, overwrite func(old, in T) T) []T {
	if len(incoming) == 0 {
		return current
	}

	out := make([]T, len(current))
	copy(out, current)

	index := make(map[string]int, len(out))
	for i := range out {
		index[key(out[i])] = i
	}

	for _, in := range incoming {
		k := key(in)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			out[i] = overwrite(out[i], in)
			continue
		}
		index[k] = len(out)
		out = append(out, in)
	}

	return out
}

// MergeUpsert merges incoming named entities into current. On a key match
// the incoming entity replaces every field of the stored one; new entities
// are inserted with status defaulting to active.
func MergeUpsert(current, incoming []entities.NamedEntity) []entities.NamedEntity {
	return mergeByKey(current, normalizeIncoming(incoming),
		func(e entities.NamedEntity) string { return e.Key() },
		func(_, in entities.NamedEntity) entities.NamedEntity { return in },
	)
}

// MergeLocations merges incoming locations into current with the same
// upsert semantics as MergeUpsert, including tier and parent linkage.
func MergeLocations(current, incoming []entities.Location) []entities.Location {
	normalized := make([]entities.Location, len(incoming))
	for i, l := range incoming {
		if l.Status == "" {
			l.Status = entities.StatusActive
		}
		normalized[i] = l
	}
	return mergeByKey(current, normalized,
		func(l entities.Location) string { return l.Key() },
		func(_, in entities.Location) entities.Location { return in },
	)
}

// MergeTraits merges incoming character traits into current. On a key
// match only the description is updated; traits carry no status.
func MergeTraits(current, incoming []entities.CharacterTrait) []entities.CharacterTrait {
	return mergeByKey(current, incoming,
		func(t entities.CharacterTrait) string { return entities.NormalizeName(t.Name) },
		func(old, in entities.CharacterTrait) entities.CharacterTrait {
			old.Description = in.Description
			return old
		},
	)
}

// normalizeIncoming applies the active-status default to entities that
// arrive without one. Stored entities are never touched.
func normalizeIncoming(in []entities.NamedEntity) []entities.NamedEntity {
	out := make([]entities.NamedEntity, len(in))
	for i, e := range in {
		if e.Status == "" {
			e.Status = entities.StatusActive
		}
		out[i] = e
	}
	return out
}

// MergeSnapshots combines a prior cumulative snapshot with a chapter
// delta into a new cumulative snapshot. Pure: neither input is mutated
// and the result shares no memory with either. A nil delta means "no
// information this chapter" and yields a copy of prior. Field rules:
//
//   - protagonist name, realm tier, current location: delta wins when
//     present and non-empty, otherwise prior is kept
//   - traits: upsert by key, description-only overwrite
//   - realm system: replaced only when delta's enumeration is strictly
//     longer (more complete enumeration wins)
//   - entity lists and locations: upsert by key, full overwrite
//   - relationships: unordered-pair merge, incoming record wins
func MergeSnapshots(prior, delta *entities.Snapshot) *entities.Snapshot {
	out := prior.Clone()
	if out == nil {
		out = &entities.Snapshot{}
	}
	if delta == nil {
		return out
	}

	if delta.Status != nil {
		if out.Status == nil {
			out.Status = &entities.CharacterStatus{}
		}
		if delta.Status.Name != "" {
			out.Status.Name = delta.Status.Name
		}
		out.Status.Traits = MergeTraits(out.Status.Traits, delta.Status.Traits)
	}

	if delta.RealmTier != "" {
		out.RealmTier = delta.RealmTier
	}
	if delta.CurrentLocationName != "" {
		out.CurrentLocationName = delta.CurrentLocationName
	}
	if len(delta.RealmSystem) > len(out.RealmSystem) {
		out.RealmSystem = make([]string, len(delta.RealmSystem))
		copy(out.RealmSystem, delta.RealmSystem)
	}

	out.Inventory = MergeUpsert(out.Inventory, delta.Inventory)
	out.Skills = MergeUpsert(out.Skills, delta.Skills)
	out.Equipment = MergeUpsert(out.Equipment, delta.Equipment)
	out.NPCs = MergeUpsert(out.NPCs, delta.NPCs)
	out.Factions = MergeUpsert(out.Factions, delta.Factions)
	out.Locations = MergeLocations(out.Locations, delta.Locations)
	out.Relationships = MergeRelationships(out.Relationships, delta.Relationships)

	return out
}
