package server

import "embed"

//go:embed web_ui
var webUI embed.FS
