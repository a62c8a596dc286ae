package config

const (
	// MaxPageTitleLength caps page titles. Fits VARCHAR(255) and keeps
	// titles usable in tree views.
	MaxPageTitleLength = 255

	// MaxWorkspaceNameLength caps workspace names.
	MaxWorkspaceNameLength = 255
)
