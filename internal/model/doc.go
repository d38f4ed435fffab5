package model

// Package model defines domain data structures used across the app: track
// download tasks, playlist entities, track metadata, and status enums.
// Structures carry explicit state transitions driven by the download service.
