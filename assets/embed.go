// Package assets embeds the bundled trip presets.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed presets
var presets embed.FS

// Presets returns the bundled preset tree, one directory per preset.
func Presets() fs.FS {
	sub, err := fs.Sub(presets, "presets")
	if err != nil {
		// "presets" is a compile-time embed; Sub only fails on invalid paths.
		panic(err)
	}
	return sub
}
