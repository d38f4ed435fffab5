package model

import (
	"fmt"
	"strings"
	"time"
)

// DownloadMethod identifies which of the download strategies produced a file
type DownloadMethod string

const (
	// MethodOpusDirect is the opus-preferring yt-dlp download
	MethodOpusDirect DownloadMethod = "opus-direct"

	// MethodStreamCopy is the yt-dlp --get-url plus ffmpeg stream copy
	MethodStreamCopy DownloadMethod = "stream-copy"

	// MethodConvert is the yt-dlp extract-and-convert fallback
	MethodConvert DownloadMethod = "convert"

	// MethodNone means no method has succeeded
	MethodNone DownloadMethod = ""
)

// TrackMetadata holds the tags extracted for a track before tagging
type TrackMetadata struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber string
	ReleaseYear string
	ReleaseDate string
	Genre       string
}

// Date returns the best available date tag value, preferring the year
func (m TrackMetadata) Date() string {
	if m.ReleaseYear != "" {
		return m.ReleaseYear
	}
	return m.ReleaseDate
}

// TrackTask represents a single track download task
type TrackTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	Metadata   TrackMetadata
	Method     DownloadMethod // method that produced the file
	Progress   float64        // 0.0 to 1.0
	Percent    int            // 0 to 100
	Speed      string         // human readable speed (e.g., "1.2MB/s")
	ETASec     int            // ETA in seconds, -1 if unknown
	LastError  string         // last error message if any
	OutputPath string         // path to downloaded opus file
	FileSize   int64          // file size in bytes
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetETAString returns ETA formatted as hh:mm:ss, or "—" if unknown
func (t *TrackTask) GetETAString() string {
	if t.ETASec <= 0 {
		return "—"
	}

	hours := t.ETASec / 3600
	minutes := (t.ETASec % 3600) / 60
	seconds := t.ETASec % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (t *TrackTask) GetDisplayTitle() string {
	if t.Metadata.Title != "" && !strings.HasPrefix(t.Metadata.Title, "http") {
		return t.Metadata.Title
	}

	if t.OutputPath != "" {
		parts := strings.FieldsFunc(t.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return t.URL
}

// FailedDownload records a download failure for the retry log
type FailedDownload struct {
	URL       string
	Title     string
	Artist    string
	Error     string
	Timestamp time.Time
}
