package platform

// Package platform contains OS/platform integration and external tooling
// glue: filesystem helpers, safe filename derivation, virtual environment
// paths, metadata probing via yt-dlp, and playlist resolution.
