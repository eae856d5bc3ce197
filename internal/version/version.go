// Package version exposes build version information.
package version

// Version is the application version, set at build time via
// -ldflags "-X github.com/sydlexius/retune/internal/version.Version=...".
var Version = "dev"

// UserAgent returns the User-Agent string sent with catalog requests.
func UserAgent() string {
	return "retune/" + Version + " (+https://github.com/sydlexius/retune)"
}
