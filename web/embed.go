// Package web embeds the static chat UI served by the backend.
package web

import "embed"

//go:embed static
var Static embed.FS
