package sources

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// appDirName is the folder name used under the user's config home.
const appDirName = "prhdesc"

// Env carries the platform information the resolver depends on.
type Env struct {
	// HomeDir expands "~" in configured paths.
	HomeDir string

	// ConfigHome is $XDG_CONFIG_HOME. Empty falls back to HomeDir/.config.
	ConfigHome string

	// WorkingDir anchors relative custom paths.
	WorkingDir string
}

// DefaultEnv reads Env from the running process.
// Lookups that fail leave the corresponding field empty.
func DefaultEnv() Env {
	home, _ := os.UserHomeDir() //nolint:errcheck // empty home disables "~" expansion
	wd, _ := os.Getwd()         //nolint:errcheck // empty working dir keeps paths as given
	return Env{
		HomeDir:    home,
		ConfigHome: os.Getenv("XDG_CONFIG_HOME"),
		WorkingDir: wd,
	}
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	// RulesFolder is the optional custom folder setting.
	RulesFolder string

	// BundledDir replaces the embedded bundle with an on-disk folder.
	BundledDir string

	// DisableBundled leaves the bundled source out.
	DisableBundled bool

	// Env supplies home, config home and working directory.
	Env Env
}

// Resolve computes the ordered, de-duplicated rule sources:
// bundled default, user-level default, then the custom folder.
// Folders that do not exist are kept so callers can report them.
func Resolve(opts ResolveOptions) []Source {
	var resolved []Source

	if !opts.DisableBundled {
		if opts.BundledDir != "" {
			dir := NormalizePath(opts.BundledDir, opts.Env)
			resolved = append(resolved, NewSource(IdentityDefault, dir, BundledLabel))
		} else {
			resolved = append(resolved, Bundled())
		}
	}

	if dir := UserDefaultDir(opts.Env); dir != "" {
		resolved = append(resolved, NewSource(IdentityUserDefault, dir, "user"))
	}

	if custom := strings.TrimSpace(opts.RulesFolder); custom != "" {
		dir := NormalizePath(custom, opts.Env)
		resolved = append(resolved, NewSource(IdentityCustom, dir, "custom"))
	}

	return lo.UniqBy(resolved, Source.key)
}

// UserDefaultDir returns the user-level rule folder, or "" when no home is known.
func UserDefaultDir(env Env) string {
	configHome := env.ConfigHome
	if configHome == "" {
		if env.HomeDir == "" {
			return ""
		}
		configHome = filepath.Join(env.HomeDir, ".config")
	}
	return filepath.Clean(filepath.Join(configHome, appDirName, "rules"))
}

// NormalizePath expands a leading "~" and makes path absolute and clean.
func NormalizePath(path string, env Env) string {
	path = ExpandHome(path, env.HomeDir)
	if !filepath.IsAbs(path) && env.WorkingDir != "" {
		path = filepath.Join(env.WorkingDir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

// ExpandHome replaces a leading "~" with home. Paths like "~user" are left alone.
func ExpandHome(path, home string) string {
	if home == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
