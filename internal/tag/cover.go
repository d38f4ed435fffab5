package tag

import (
	"os"
	"path/filepath"
	"strings"
)

// SupportedCoverExtensions lists the cover formats that can be embedded
var SupportedCoverExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// CommonCoverNames are well-known cover filenames tried when no cover
// shares the track's base name.
var CommonCoverNames = []string{"cover.jpg", "cover.jpeg", "cover.png", "album.jpg", "folder.jpg"}

// FindCover locates cover art for an opus file. Preference order: an image
// with the same base name, then a well-known cover filename, then any
// supported image in the folder. Returns "" when nothing matches.
func FindCover(opusPath string) string {
	folder := filepath.Dir(opusPath)
	base := strings.TrimSuffix(filepath.Base(opusPath), filepath.Ext(opusPath))

	for _, ext := range SupportedCoverExtensions {
		candidate := filepath.Join(folder, base+ext)
		if fileExists(candidate) {
			return candidate
		}
	}

	for _, name := range CommonCoverNames {
		candidate := filepath.Join(folder, name)
		if fileExists(candidate) {
			return candidate
		}
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if isSupportedCover(entry.Name()) {
			return filepath.Join(folder, entry.Name())
		}
	}

	return ""
}

// isSupportedCover reports whether a filename has a supported cover extension
func isSupportedCover(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedCoverExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// fileExists reports whether a path exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
