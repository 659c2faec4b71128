package ports

import (
	"fmt"
	"strconv"
	"strings"
)

const blobKeyPrefix = "novelstate"

// ChapterBlobKey returns the remote key for a chapter's cached state.
// The encoding is stable and reversible via ParseChapterBlobKey.
func ChapterBlobKey(storyID string, chapterIndex int) string {
	return fmt.Sprintf("%s/%s/chapter-%d.json", blobKeyPrefix, storyID, chapterIndex)
}

// StoryBlobKey returns the remote key for a story's cumulative state.
func StoryBlobKey(storyID string) string {
	return fmt.Sprintf("%s/%s/state.json", blobKeyPrefix, storyID)
}

// StoryBlobPrefix returns the key prefix covering all blobs of one story.
func StoryBlobPrefix(storyID string) string {
	return fmt.Sprintf("%s/%s/", blobKeyPrefix, storyID)
}

// ParseChapterBlobKey decodes a key produced by ChapterBlobKey. ok is
// false for story-state keys and foreign keys.
func ParseChapterBlobKey(key string) (storyID string, chapterIndex int, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] != blobKeyPrefix {
		return "", 0, false
	}
	name := parts[2]
	if !strings.HasPrefix(name, "chapter-") || !strings.HasSuffix(name, ".json") {
		return "", 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "chapter-"), ".json"))
	if err != nil {
		return "", 0, false
	}
	return parts[1], idx, true
}
