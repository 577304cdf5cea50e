package storefront

// Version information for the storefront core
const (
	// Version is the current release
	Version = "development"

	// BuildDate is set during build time
	BuildDate = "development"

	// GitCommit is set during build time
	GitCommit = "unknown"
)
