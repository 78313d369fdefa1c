package version

// Version is overridden at build time via
// -ldflags "-X github.com/bnema/homewatch-cli/internal/version.Version=...".
var Version = "dev"
