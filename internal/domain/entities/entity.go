// Package entities contains core domain data structures.
package entities

import "strings"

// EntityStatus tracks the narrative state of a named entity.
type EntityStatus string

const (
	StatusActive    EntityStatus = "active"
	StatusUsed      EntityStatus = "used"
	StatusLost      EntityStatus = "lost"
	StatusDead      EntityStatus = "dead"
	StatusDestroyed EntityStatus = "destroyed"
)

// NamedEntity is a single tracked subject within a snapshot category:
// an inventory item, skill, equipment piece, NPC or faction. Two entities
// in the same category are the same iff their normalized names are equal.
type NamedEntity struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Status      EntityStatus `json:"status,omitempty"`
}

// Key returns the identity key for this entity.
func (e NamedEntity) Key() string {
	return NormalizeName(e.Name)
}

// CharacterTrait describes one trait of the protagonist. Traits have no
// status; merges only ever update the description.
type CharacterTrait struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CharacterStatus is the protagonist record, singleton per snapshot.
type CharacterStatus struct {
	Name   string           `json:"name,omitempty"`
	Traits []CharacterTrait `json:"traits,omitempty"`
}

// NormalizeName converts a display name to its identity key: trimmed and
// lower-cased for case-insensitive matching. An empty result means the
// entity has no usable identity and must be dropped at ingestion.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
