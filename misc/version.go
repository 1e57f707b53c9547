// Package misc keeps program identity values set at build time.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by the linker: -X rtable/misc.version=... -X rtable/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "rtable"

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension, falling back to the
// default when executable name could not be established.
func GetAppName() string {
	if len(os.Args) == 0 || len(os.Args[0]) == 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") || strings.HasSuffix(name, ".test.exe") {
		return appName
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return appName
	}
	return name
}
