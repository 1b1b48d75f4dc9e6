package discord

import "strings"

const (
	// UnknownVersion stands in for a missing version file or an empty version.
	UnknownVersion = "unknown"
	// NoVersion is reported when no marker has been persisted yet.
	NoVersion = "none"
)

// NormalizeVersion trims v and substitutes UnknownVersion for an empty result.
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return UnknownVersion
	}

	return v
}
