package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename limits
const (
	MaxFileNameLength   = 100
	MaxFolderNameLength = 150
)

// Characters not allowed in filenames on at least one supported platform
const invalidFilenameChars = `<>:"/\|?*`

// OpusExtension is the output extension for downloaded audio
const OpusExtension = ".opus"

var multiSpace = regexp.MustCompile(`\s+`)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeMusicDir returns the default download directory for opus files
func GetHomeMusicDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Music", "YouTube Music Downloads"), nil
}

// SafeFileName converts a track title into a filesystem-safe opus filename.
// The name is built from the title only, with no track numbers.
func SafeFileName(title string) string {
	cleaned := sanitizeName(title, MaxFileNameLength)
	if cleaned == "" {
		return "unknown_track" + OpusExtension
	}
	return cleaned + OpusExtension
}

// SafeFolderName converts a playlist or album title into a safe directory name
func SafeFolderName(name string) string {
	cleaned := sanitizeName(name, MaxFolderNameLength)
	if cleaned == "" {
		return "Unknown Folder"
	}
	return cleaned
}

// sanitizeName strips invalid characters, control characters, and non-ASCII
// runes, collapses whitespace, and truncates overly long names.
func sanitizeName(name string, maxLen int) string {
	if name == "" || name == "Unknown" {
		return ""
	}

	var b strings.Builder
	for _, r := range norm.NFKD.String(name) {
		switch {
		case strings.ContainsRune(invalidFilenameChars, r):
			b.WriteRune('_')
		case r < 32:
			// drop control characters
		case r > unicode.MaxASCII:
			// decomposed accents and other non-ASCII runes are dropped
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(multiSpace.ReplaceAllString(b.String(), " "))
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen] + "..."
	}
	return cleaned
}
