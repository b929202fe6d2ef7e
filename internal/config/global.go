// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"sync"
)

var (
	mu sync.Mutex

	cached     *Config
	cachedPath string

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string

	// configFilePathOverride forces loading from a specific file, set by the
	// --config persistent flag.
	configFilePathOverride string
)

// Get returns the cached configuration, loading it on first use. Load errors
// surface on every call until a load succeeds.
func Get(ctx context.Context) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	cfg, path, err := loadWithOptions(ctx, LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	if err != nil {
		return nil, err
	}

	cached = cfg
	cachedPath = path
	return cached, nil
}

// ResolvedPath returns the path of the config file the cached configuration
// was loaded from, or "" when defaults are in effect or nothing is cached.
func ResolvedPath() string {
	mu.Lock()
	defer mu.Unlock()
	return cachedPath
}

// Reset clears the cache and test overrides. Call from test cleanup to
// restore defaults.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cached = nil
	cachedPath = ""
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	mu.Lock()
	defer mu.Unlock()
	configDirOverride = dir
	cached = nil
	cachedPath = ""
}

// SetConfigFilePathOverride forces configuration loading from a specific file.
func SetConfigFilePathOverride(path string) {
	mu.Lock()
	defer mu.Unlock()
	configFilePathOverride = path
	cached = nil
	cachedPath = ""
}
