package entities

// Location is a place in the story world. ParentName references another
// location's exact Name to form a hierarchy; an absent ParentName marks a
// root. Parent linking is by exact string, not by normalized name - this
// mirrors how extractors emit the field and is deliberately stricter than
// the identity rule used for merging.
type Location struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Status      EntityStatus `json:"status,omitempty"`
	Tier        string       `json:"tier,omitempty"`
	ParentName  string       `json:"parentName,omitempty"`
}

// Key returns the identity key for this location.
func (l Location) Key() string {
	return NormalizeName(l.Name)
}
