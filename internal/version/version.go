// Package version holds the current release version of cfgkit, kept
// separate from the main packages so any binary can report it without
// an import cycle.
package version

// Current is the version string of this build of cfgkit.
const Current = "0.1.0"

// APICurrent is the version of the HTTP API the server exposes, tracked
// separately from Current since the wire protocol can stay stable across
// module releases.
const APICurrent = "1.0"
