package version

import (
	"os"
	"runtime/debug"
	"strings"
)

const fallback = "0.0.0"

// versionFile sits next to the binary in release images.
const versionFile = "VERSION"

// Resolve returns the gateway version. It falls back through module build
// info, then a VERSION file in the working directory, then a placeholder.
func Resolve() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		v := info.Main.Version
		if v != "" && v != "(devel)" {
			return v
		}
	}
	return resolveFromFile(versionFile)
}

func resolveFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return fallback
	}
	return v
}
