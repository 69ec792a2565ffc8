// Package version exposes the build version stamped at link time.
package version

import "strings"

const development = "development"

// Version is overridden with -ldflags "-X github.com/alexanderramin/vartui/internal/version.Version=v1.2.3".
var Version = development

// String returns the release version, or "development" for local builds.
func String() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	return development
}
