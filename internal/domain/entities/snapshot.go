package entities

// Snapshot is the cumulative character/world-state record at a point in a
// story. A chapter-level delta uses the same shape: absent fields mean
// "nothing new this chapter", never "clear the prior value".
type Snapshot struct {
	Status              *CharacterStatus     `json:"status,omitempty"`
	RealmTier           string               `json:"realmTier,omitempty"`
	RealmSystem         []string             `json:"realmSystem,omitempty"`
	Inventory           []NamedEntity        `json:"inventory,omitempty"`
	Skills              []NamedEntity        `json:"skills,omitempty"`
	Equipment           []NamedEntity        `json:"equipment,omitempty"`
	NPCs                []NamedEntity        `json:"npcs,omitempty"`
	Factions            []NamedEntity        `json:"factions,omitempty"`
	Locations           []Location           `json:"locations,omitempty"`
	CurrentLocationName string               `json:"currentLocationName,omitempty"`
	Relationships       []RelationshipRecord `json:"relationships,omitempty"`
}

// IsEmpty reports whether the snapshot carries no information at all.
func (s *Snapshot) IsEmpty() bool {
	if s == nil {
		return true
	}
	return s.Status == nil &&
		s.RealmTier == "" &&
		len(s.RealmSystem) == 0 &&
		len(s.Inventory) == 0 &&
		len(s.Skills) == 0 &&
		len(s.Equipment) == 0 &&
		len(s.NPCs) == 0 &&
		len(s.Factions) == 0 &&
		len(s.Locations) == 0 &&
		s.CurrentLocationName == "" &&
		len(s.Relationships) == 0
}

// Clone returns a deep copy sharing no memory with the receiver. A chapter's
// frozen snapshot and the story-level cumulative snapshot must be fully
// independent instances.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		RealmTier:           s.RealmTier,
		RealmSystem:         cloneStrings(s.RealmSystem),
		Inventory:           cloneEntities(s.Inventory),
		Skills:              cloneEntities(s.Skills),
		Equipment:           cloneEntities(s.Equipment),
		NPCs:                cloneEntities(s.NPCs),
		Factions:            cloneEntities(s.Factions),
		Locations:           cloneLocations(s.Locations),
		CurrentLocationName: s.CurrentLocationName,
		Relationships:       cloneRelationships(s.Relationships),
	}
	if s.Status != nil {
		status := CharacterStatus{Name: s.Status.Name}
		if len(s.Status.Traits) > 0 {
			status.Traits = make([]CharacterTrait, len(s.Status.Traits))
			copy(status.Traits, s.Status.Traits)
		}
		out.Status = &status
	}
	return out
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneEntities(in []NamedEntity) []NamedEntity {
	if len(in) == 0 {
		return nil
	}
	out := make([]NamedEntity, len(in))
	copy(out, in)
	return out
}

func cloneLocations(in []Location) []Location {
	if len(in) == 0 {
		return nil
	}
	out := make([]Location, len(in))
	copy(out, in)
	return out
}

func cloneRelationships(in []RelationshipRecord) []RelationshipRecord {
	if len(in) == 0 {
		return nil
	}
	out := make([]RelationshipRecord, len(in))
	copy(out, in)
	return out
}
