package services

import (
	"github.com/ersonp/novelstate/internal/domain/entities"
)

// LocationNode wraps a location with its resolved children for display.
type LocationNode struct {
	Location entities.Location
	Children []*LocationNode
}

// BuildLocationTree reconstructs the parent/child hierarchy from a flat
// location list. Parent linking uses the exact Name string, not the
// normalized identity key. A location referencing itself or a name that
// doesn't exist becomes a root. Degenerate inputs (e.g. a parent cycle
// that leaves no roots) fall back to a flat all-root list rather than
// returning an empty tree.
func BuildLocationTree(locations []entities.Location) []*LocationNode {
	if len(locations) == 0 {
		return nil
	}

	nodes := make([]*LocationNode, len(locations))
	byName := make(map[string]*LocationNode, len(locations))
	for i, loc := range locations {
		nodes[i] = &LocationNode{Location: loc}
		byName[loc.Name] = nodes[i]
	}

	var roots []*LocationNode
	for _, node := range nodes {
		parentName := node.Location.ParentName
		if parentName == "" || parentName == node.Location.Name {
			roots = append(roots, node)
			continue
		}
		parent, ok := byName[parentName]
		if !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	if len(roots) == 0 {
		// Every node ended up inside a cycle. Flatten so the caller
		// still has something to render.
		flat := make([]*LocationNode, len(locations))
		for i, loc := range locations {
			flat[i] = &LocationNode{Location: loc}
		}
		return flat
	}

	return roots
}

// ValidateCurrentLocation reports whether the snapshot's current location
// name matches a known location by identity key. The extractor is asked
// to keep these consistent but its output is best-effort; a mismatch is
// diagnostic, never fatal.
func ValidateCurrentLocation(s *entities.Snapshot) bool {
	if s == nil || s.CurrentLocationName == "" {
		return true
	}
	want := entities.NormalizeName(s.CurrentLocationName)
	for _, loc := range s.Locations {
		if loc.Key() == want {
			return true
		}
	}
	return false
}
