package config

// Version info injected via ldflags at build time
var (
	// Version is the semantic version of the robant CLI
	Version = "dev"

	// BuildDate is the ISO 8601 timestamp of the build
	BuildDate = "unknown"

	// Commit is the git commit hash the binary was built from
	Commit = "none"
)
