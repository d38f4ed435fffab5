package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/finnapple/opusgrab/internal/model"
)

// Timeout constants
const (
	DefaultProbeTimeout = 30 * time.Second
)

// Fallback tag values
const (
	UnknownTitle  = "Unknown Title"
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// ProbeService fetches per-track metadata via yt-dlp --dump-json
type ProbeService struct {
	ytdlpPath string
	timeout   time.Duration
}

// NewProbeService creates a probe service using the given yt-dlp executable
func NewProbeService(ytdlpPath string) *ProbeService {
	return &ProbeService{
		ytdlpPath: ytdlpPath,
		timeout:   DefaultProbeTimeout,
	}
}

// SetTimeout sets the timeout for probe operations
func (p *ProbeService) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// Probe fetches metadata for a single track URL
func (p *ProbeService) Probe(ctx context.Context, url string) (model.TrackMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.ytdlpPath, "--dump-json", "--no-playlist", url)
	output, err := cmd.Output()
	if err != nil {
		return model.TrackMetadata{}, fmt.Errorf("failed to get track info: %w", err)
	}

	return ExtractMetadata(output)
}

// ExtractMetadata parses yt-dlp --dump-json output into track metadata.
// Artist falls back to the uploader, album falls back to the playlist name.
func ExtractMetadata(raw []byte) (model.TrackMetadata, error) {
	var info map[string]any
	if err := json.Unmarshal(raw, &info); err != nil {
		return model.TrackMetadata{}, fmt.Errorf("failed to parse track info: %w", err)
	}

	artist := stringField(info, "artist")
	if artist == "" {
		artist = stringField(info, "uploader")
	}
	if artist == "" {
		artist = UnknownArtist
	}

	album := stringField(info, "album")
	if album == "" {
		album = stringField(info, "playlist")
	}
	if album == "" {
		album = UnknownAlbum
	}

	title := stringField(info, "title")
	if title == "" {
		title = UnknownTitle
	}

	return model.TrackMetadata{
		Title:       title,
		Artist:      artist,
		Album:       album,
		TrackNumber: stringField(info, "track_number"),
		ReleaseYear: stringField(info, "release_year"),
		ReleaseDate: stringField(info, "release_date"),
		Genre:       stringField(info, "genre"),
	}, nil
}

// stringField reads a JSON value as a string, converting numbers
func stringField(info map[string]any, key string) string {
	switch v := info[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
