// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/updawg/Fund-Manager-Backend/internal/version.Version=...".
package version

// Version is the application version.
var Version = "dev"
