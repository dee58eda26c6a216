// Package web embute os templates HTML no binário.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
