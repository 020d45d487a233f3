package folio

import "embed"

// EmbeddedAssets contains static assets shipped with folio:
// folio.js, folio.css and the fallback favicon.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
