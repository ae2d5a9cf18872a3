package sources

import (
	"embed"
	"io/fs"
)

//go:embed bundled/*.yml
var bundledRules embed.FS

// Bundled returns the embedded default rule source.
func Bundled() Source {
	sub, err := fs.Sub(bundledRules, "bundled")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "bundled" is a constant.
		panic(err)
	}
	return NewFSSource(IdentityDefault, BundledLabel, sub)
}
