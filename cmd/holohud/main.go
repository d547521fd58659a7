package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	app := newCLIApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// defaultDataDir returns ~/.holohud, or .holohud when the home directory is unknown.
func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".holohud"
	}
	return filepath.Join(homeDir, ".holohud")
}

// findWebDir searches for the browser renderer in common locations.
// It checks: "web", "../web", "../../web", and dataDir/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	return findDir(dataDir, "web")
}

// findPluginDir searches for the plugins directory the same way as findWebDir.
func findPluginDir(dataDir string) string {
	return findDir(dataDir, "plugins")
}

func findDir(dataDir, name string) string {
	relativePaths := []string{name, filepath.Join("..", name), filepath.Join("..", "..", name)}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir := filepath.Join(dataDir, name)
	if info, err := os.Stat(homeDir); err == nil && info.IsDir() {
		return homeDir
	}

	return ""
}
