package download

import (
	"context"

	"github.com/finnapple/opusgrab/internal/model"
)

// Prober fetches metadata for a single track URL
type Prober interface {
	Probe(ctx context.Context, url string) (model.TrackMetadata, error)
}

// Resolver expands a playlist or album URL into its track entries
type Resolver interface {
	Resolve(ctx context.Context, url string) (*model.Playlist, error)
}

// Tagger writes track metadata into a downloaded opus file
type Tagger interface {
	WriteTags(ctx context.Context, opusPath string, meta model.TrackMetadata) error
}

// Runner executes external commands; satisfied by bootstrap.ExecRunner
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Downloader defines the interface for the download service
type Downloader interface {
	SetUpdateCallback(func(*model.TrackTask))
	ProcessURL(ctx context.Context, url string) error
	RetryFailed(ctx context.Context) (int, error)
	GetAllTasks() []*model.TrackTask
	FailLog() *FailLog
}
