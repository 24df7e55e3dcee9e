// Package version reports the SDK identity written into telemetry and the
// User-Agent header.
package version

const (
	// SDK is the sdk name recorded in telemetry entries.
	SDK = "go"

	// Version is the release of this module.
	Version = "0.4.0"
)

// UserAgent is sent with every gateway request.
func UserAgent() string {
	return "ai-stats-go/" + Version
}
