// Package sources resolves and scans the folders that contribute rule files.
//
// Three sources are recognised, in scan order: the bundled default rules, the
// user-level default folder, and an optional custom folder. The order decides
// which entry appears first for a key in the description index.
package sources

import (
	"fmt"
	"io/fs"
	"os"
)

// Identity names the origin of a rule source.
type Identity string

const (
	// IdentityDefault is the bundled rule set.
	IdentityDefault Identity = "default"

	// IdentityUserDefault is the per-user rule folder.
	IdentityUserDefault Identity = "user-default"

	// IdentityCustom is the folder named by the rules_folder setting.
	IdentityCustom Identity = "custom"
)

// BundledLabel is the provenance label of every entry from the bundled source.
const BundledLabel = "default"

// Source is one configured origin of rule files.
type Source struct {
	// Identity tells which configured origin this is.
	Identity Identity

	// Dir is the absolute, cleaned folder path. It is empty for the embedded bundle.
	Dir string

	// Label is the human-readable name shown when listing sources.
	Label string

	fsys fs.FS
}

// NewSource creates an on-disk source rooted at dir.
func NewSource(identity Identity, dir, label string) Source {
	return Source{Identity: identity, Dir: dir, Label: label}
}

// NewFSSource creates a source backed by fsys instead of a folder on disk.
// Such sources are scanned like any other but cannot be watched.
func NewFSSource(identity Identity, label string, fsys fs.FS) Source {
	return Source{Identity: identity, Label: label, fsys: fsys}
}

// FS returns the filesystem holding the source's rule files.
func (s Source) FS() fs.FS {
	if s.fsys != nil {
		return s.fsys
	}
	if s.Dir == "" {
		return nil
	}
	return os.DirFS(s.Dir)
}

// Embedded reports whether the source lives in memory rather than on disk.
func (s Source) Embedded() bool {
	return s.Dir == "" && s.fsys != nil
}

// Exists reports whether the source can be scanned right now.
func (s Source) Exists() bool {
	if s.Embedded() {
		return true
	}
	if s.Dir == "" {
		return false
	}
	info, err := os.Stat(s.Dir)
	return err == nil && info.IsDir()
}

// Location returns the folder path, or a placeholder for embedded sources.
func (s Source) Location() string {
	if s.Embedded() {
		return "(embedded)"
	}
	return s.Dir
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Identity, s.Location())
}

// key identifies a source for de-duplication.
func (s Source) key() string {
	if s.Embedded() {
		return "\x00embedded:" + string(s.Identity)
	}
	return s.Dir
}
