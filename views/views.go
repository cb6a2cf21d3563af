// Package views embeds the HTML templates rendered by the Fiber template engine.
package views

import "embed"

// FS holds the page templates and layouts.
//
//go:embed *.html layouts/*.html
var FS embed.FS
