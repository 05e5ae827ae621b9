package main

import (
	"embed"
	"io/fs"

	"github.com/aidancornelius/murmur-engine/internal/server"
)

// The ui directory ships a minimal dashboard shell; a full build
// replaces it with the compiled frontend.
//
//go:embed all:ui
var uiDist embed.FS

func init() {
	sub, err := fs.Sub(uiDist, "ui")
	if err != nil {
		return
	}
	server.SetUI(sub)
}
