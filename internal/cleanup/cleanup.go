package cleanup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageExtensions are the cover/thumbnail formats considered for cleanup
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp", ".tiff"}

// Mode selects which images a cleanup plan includes
type Mode int

const (
	// ModeMatching deletes only images whose base name matches an opus file
	ModeMatching Mode = iota

	// ModeAll deletes every image in the folder
	ModeAll
)

// Scan holds the relevant contents of a folder
type Scan struct {
	Folder string
	Opus   []string // opus filenames
	Images []string // image filenames
}

// Plan lists the images a cleanup pass would delete and keep
type Plan struct {
	Folder string
	Delete []string
	Keep   []string
}

// Result summarizes an applied plan
type Result struct {
	Deleted int
	Errors  []error
}

// ScanFolder inventories the opus files and images in a folder
func ScanFolder(folder string) (*Scan, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	scan := &Scan{Folder: folder}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.EqualFold(filepath.Ext(name), ".opus"):
			scan.Opus = append(scan.Opus, name)
		case isImage(name):
			scan.Images = append(scan.Images, name)
		}
	}

	sort.Strings(scan.Opus)
	sort.Strings(scan.Images)
	return scan, nil
}

// BuildPlan decides which images to delete. In matching mode an image is
// deleted when its base name and an opus base name contain one another,
// case-insensitively; everything else is kept.
func BuildPlan(scan *Scan, mode Mode) *Plan {
	plan := &Plan{Folder: scan.Folder}

	if mode == ModeAll {
		plan.Delete = append(plan.Delete, scan.Images...)
		return plan
	}

	opusBases := make([]string, 0, len(scan.Opus))
	for _, name := range scan.Opus {
		opusBases = append(opusBases, strings.ToLower(baseName(name)))
	}

	for _, img := range scan.Images {
		imgBase := strings.ToLower(baseName(img))
		if matchesAny(imgBase, opusBases) {
			plan.Delete = append(plan.Delete, img)
		} else {
			plan.Keep = append(plan.Keep, img)
		}
	}
	return plan
}

// Apply deletes the planned images, continuing past individual failures
func Apply(plan *Plan) Result {
	var result Result
	for _, img := range plan.Delete {
		if err := os.Remove(filepath.Join(plan.Folder, img)); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to delete %s: %w", img, err))
			continue
		}
		result.Deleted++
	}
	return result
}

// matchesAny reports whether the image base and any opus base contain one
// another. The loose matching mirrors titles that differ only by
// downloader suffixes.
func matchesAny(imgBase string, opusBases []string) bool {
	for _, opusBase := range opusBases {
		if strings.Contains(opusBase, imgBase) || strings.Contains(imgBase, opusBase) {
			return true
		}
	}
	return false
}

// baseName strips the extension from a filename
func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// isImage reports whether a filename has a known image extension
func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range ImageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
