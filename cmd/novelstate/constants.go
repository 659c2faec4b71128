package main

// Default limits for CLI commands.
const (
	DefaultSearchLimit = 10

	// ContentPreviewRunes bounds how much chapter text the open command
	// prints before the state summary.
	ContentPreviewRunes = 400
)
