package renderer

import "embed"

// templates holds the markdown templates. A template named "a_b.md" is a
// partial of the assembly "a.md".
//
//go:embed *.md
var templates embed.FS
