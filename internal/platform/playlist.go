package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/finnapple/opusgrab/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// URL templates
const (
	TrackURLTemplate = "https://music.youtube.com/watch?v=%s"
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
)

// URLKind classifies a YouTube Music URL
type URLKind int

const (
	URLInvalid URLKind = iota
	URLTrack
	URLPlaylist
	URLAlbum
)

// ClassifyURL determines how a URL should be processed. Both
// music.youtube.com and youtube.com URLs are accepted.
func ClassifyURL(url string) URLKind {
	lower := strings.ToLower(url)
	if !strings.Contains(lower, "youtube.com") {
		return URLInvalid
	}
	switch {
	case strings.Contains(lower, "playlist"):
		return URLPlaylist
	case strings.Contains(lower, "album"), strings.Contains(lower, "release"):
		return URLAlbum
	default:
		return URLTrack
	}
}

// PlaylistService resolves playlist URLs into track entries
type PlaylistService struct {
	timeout time.Duration
}

// NewPlaylistService creates a new playlist service
func NewPlaylistService() *PlaylistService {
	return &PlaylistService{
		timeout: DefaultPlaylistTimeout,
	}
}

// SetTimeout sets the timeout for playlist resolution
func (p *PlaylistService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Resolve fetches the entries of a playlist or album URL
func (p *PlaylistService) Resolve(ctx context.Context, url string) (*model.Playlist, error) {
	playlistID := ExtractPlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %v", err)
	}

	playlist := model.NewPlaylist(url)
	playlist.ID = playlistID
	for _, it := range items {
		playlist.AddEntry(model.PlaylistEntry{
			VideoID: it.VideoID,
			Title:   it.Title,
			URL:     fmt.Sprintf(TrackURLTemplate, it.VideoID),
		})
	}

	playlist.Title = playlistTitle(playlist.Entries)
	playlist.UpdateStatus(model.PlaylistStatusReady)
	return playlist, nil
}

// ExtractPlaylistID extracts the playlist ID from various URL formats
func ExtractPlaylistID(url string) string {
	if !strings.Contains(url, PlaylistParam) {
		return ""
	}
	parts := strings.Split(url, PlaylistParam)
	if len(parts) < 2 {
		return ""
	}
	id := parts[1]
	if strings.Contains(id, ParamSeparator) {
		id = strings.Split(id, ParamSeparator)[0]
	}
	return id
}

// playlistTitle derives a display title from the first entries
func playlistTitle(entries []model.PlaylistEntry) string {
	if len(entries) == 0 {
		return DefaultPlaylistName
	}
	return entries[0].Title + " Playlist"
}
