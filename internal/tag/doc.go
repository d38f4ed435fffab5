package tag

// Package tag writes vorbis comments and embedded cover art into opus
// files. ffmpeg performs the rewrites as stream copies; the cover art is
// carried as a base64 FLAC picture block in the METADATA_BLOCK_PICTURE
// comment, the format opus players expect.
