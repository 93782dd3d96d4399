package version

// Version is overridden at build time with -ldflags "-X github.com/bnema/ncdrift/internal/version.Version=...".
var Version = "dev"
