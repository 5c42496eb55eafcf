package constants

// Context keys shared between middleware and handlers
const (
	ContextKeySubject = "auth_subject"
	ContextKeyRole    = "auth_role"
	ContextKeyEmail   = "auth_email"
)

// Pagination limits
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Upload limits
const (
	// MaxUploadSize is the ceiling for a single evidence or portfolio file.
	MaxUploadSize = 50 << 20 // 50 MiB

	// MaxSanitizedStemLength caps the human-readable part of a stored filename.
	MaxSanitizedStemLength = 50
)
