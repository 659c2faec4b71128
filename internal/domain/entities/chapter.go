package entities

// ChapterRef identifies one chapter of one story. Index is the reading
// position (1-based); the snapshot of chapter Index-1 is the merge context
// when this chapter is analyzed.
type ChapterRef struct {
	StoryID string `json:"story_id"`
	Index   int    `json:"index"`
	URL     string `json:"url,omitempty"`
}

// Prev returns the reference to the immediately preceding chapter.
func (r ChapterRef) Prev() ChapterRef {
	return ChapterRef{StoryID: r.StoryID, Index: r.Index - 1, URL: ""}
}

// ChapterEntry is the cached state of one chapter. A nil Snapshot means
// "content known, not yet analyzed". Once non-nil the snapshot is frozen:
// normal navigation never recomputes it, only an explicit re-analysis
// overwrites the entry.
type ChapterEntry struct {
	Content  string    `json:"content"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

// Analyzed reports whether the entry carries a frozen snapshot.
func (e *ChapterEntry) Analyzed() bool {
	return e != nil && e.Snapshot != nil
}
