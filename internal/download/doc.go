// Package download implements the track download pipeline: probing track
// metadata, downloading the opus audio through a chain of fallback methods,
// tagging the result, and recording failures for later retry. Playlists are
// downloaded into their own folder through a bounded worker pool.
package download
