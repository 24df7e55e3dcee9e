package devtools

import (
	"os"
	"strings"

	"github.com/ai-stats/ai-stats-go/core/cost"
)

const (
	// EnvEnabled overrides Config.Enabled when set to a recognised value.
	EnvEnabled = "AI_STATS_DEVTOOLS"
	// EnvDirectory supplies the capture directory when Config.Directory is empty.
	EnvDirectory = "AI_STATS_DEVTOOLS_DIR"

	DefaultDirectory = ".ai-stats-devtools"
	GenerationsFile  = "generations.jsonl"
	MetadataFile     = "metadata.json"
	AssetsDir        = "assets"
)

// assetKinds are created under AssetsDir when SaveAssets is on. Nothing is
// written into them yet.
var assetKinds = []string{"images", "audio", "video"}

// Config controls a Recorder.
type Config struct {
	Enabled bool
	// Directory is resolved with ResolveDirectory.
	Directory      string
	CaptureHeaders bool
	SaveAssets     bool
	// Pricing, when set, adds an estimated metadata.cost to entries.
	Pricing cost.Table
}

// DefaultConfig is disabled, with asset directories on.
func DefaultConfig() Config {
	return Config{SaveAssets: true}
}

// resolveEnabled applies EnvEnabled: 1/true/yes/on enable, anything else
// leaves configured unchanged.
func resolveEnabled(configured bool) bool {
	raw, ok := os.LookupEnv(EnvEnabled)
	if !ok {
		return configured
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return configured
	}
}

// ResolveDirectory returns configured, else EnvDirectory, else DefaultDirectory.
func ResolveDirectory(configured string) string {
	if configured != "" {
		return configured
	}
	if dir := os.Getenv(EnvDirectory); dir != "" {
		return dir
	}
	return DefaultDirectory
}
