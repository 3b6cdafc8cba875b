// Package dashboard provides the embedded viewer assets for statuswatch.
//
// This package uses Go's embed directive to include the viewer HTML at
// compile time, enabling single-binary deployment without external asset
// files.
//
// The embedded assets are served by the server package at the root path
// ("/"). Users of the statuswatch library should not need to interact
// with this package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the viewer page.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Event log viewer with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
