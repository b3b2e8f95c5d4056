package blog

import "embed"

// EmbeddedAssets contains static assets shipped with the blog: analytics.js,
// the page view beacon. The static build copies them to <output>/assets/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
