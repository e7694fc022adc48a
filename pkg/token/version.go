package token

// Version information for the signal vocabulary.
const (
	// Version is the current version of the token module.
	Version = "1.0.0"

	// MinCompatibleVersion is the oldest version whose signals this version understands.
	MinCompatibleVersion = "1.0.0"
)
