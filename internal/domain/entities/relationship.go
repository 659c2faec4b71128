package entities

// RelationshipRecord describes the relationship between two named subjects.
// Identity is the unordered pair of normalized subject names: (A,B) and
// (B,A) are the same relationship.
type RelationshipRecord struct {
	SubjectA    string `json:"subjectA"`
	SubjectB    string `json:"subjectB"`
	Description string `json:"description,omitempty"`
}

// PairKey returns the canonical key for the unordered subject pair.
func (r RelationshipRecord) PairKey() string {
	a := NormalizeName(r.SubjectA)
	b := NormalizeName(r.SubjectB)
	if b < a {
		a, b = b, a
	}
	return a + "--" + b
}
