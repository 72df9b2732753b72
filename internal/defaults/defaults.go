// Package defaults bundles the default prior files shipped with priorconf.
package defaults

import (
	"embed"
	"io/fs"
)

//go:embed priors
var files embed.FS

// FS returns the bundled prior tree. Each file contributes the category named
// by its path, e.g. mass_profiles/dark_mass_profiles.yaml is
// "mass_profiles.dark_mass_profiles".
func FS() fs.FS {
	sub, err := fs.Sub(files, "priors")
	if err != nil {
		panic(err)
	}
	return sub
}
