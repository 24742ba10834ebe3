// Package version holds build metadata. Version is set at build time with
// -ldflags "-X github.com/ndewijer/selic-correction-backend/internal/version.Version=v1.2.3".
package version

// Version is the application version.
var Version = "dev"
