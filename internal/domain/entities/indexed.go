package entities

// EntityCategory names the snapshot list an indexed entity came from.
type EntityCategory string

const (
	CategoryInventory EntityCategory = "inventory"
	CategorySkill     EntityCategory = "skill"
	CategoryEquipment EntityCategory = "equipment"
	CategoryNPC       EntityCategory = "npc"
	CategoryFaction   EntityCategory = "faction"
	CategoryLocation  EntityCategory = "location"
)

// IndexedEntity is a snapshot entity prepared for semantic search: one
// point in the vector index per (story, category, identity key).
type IndexedEntity struct {
	ID          string         `json:"id"`
	StoryID     string         `json:"story_id"`
	Category    EntityCategory `json:"category"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status,omitempty"`
	Embedding   []float32      `json:"embedding,omitempty"`
}

// SearchText returns the text embedded for this entity.
func (e *IndexedEntity) SearchText() string {
	if e.Description == "" {
		return e.Name
	}
	return e.Name + " " + e.Description
}
