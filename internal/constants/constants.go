package constants

// Context keys
const (
	ContextKeyUser = "current_user"
	ContextKeyPost = "post"
)

// Pagination
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxTagsPerPost    = 10
	MaxTagNameLength  = 20
	MaxImagesPerPost  = 10
	MaxTitleLength    = 50
	MaxSubTitleLength = 100
)
