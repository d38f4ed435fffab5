package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist
type PlaylistStatus string

const (
	PlaylistStatusParsing     PlaylistStatus = "parsing"
	PlaylistStatusReady       PlaylistStatus = "ready"
	PlaylistStatusDownloading PlaylistStatus = "downloading"
	PlaylistStatusCompleted   PlaylistStatus = "completed"
	PlaylistStatusError       PlaylistStatus = "error"
)

// PlaylistEntry represents a single track in a playlist
type PlaylistEntry struct {
	VideoID string
	Title   string
	URL     string
}

// Playlist represents a YouTube Music playlist or album queued for download
type Playlist struct {
	ID         string
	Title      string
	URL        string
	Entries    []PlaylistEntry
	Status     PlaylistStatus
	Downloaded int
	Failed     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Status:    PlaylistStatusParsing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddEntry appends a track entry to the playlist
func (p *Playlist) AddEntry(entry PlaylistEntry) {
	p.Entries = append(p.Entries, entry)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// Total returns the number of entries in the playlist
func (p *Playlist) Total() int {
	return len(p.Entries)
}

// Progress returns overall download progress as percentage
func (p *Playlist) Progress() float64 {
	if len(p.Entries) == 0 {
		return 0
	}
	return float64(p.Downloaded) / float64(len(p.Entries)) * 100
}
