package tag

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/finnapple/opusgrab/internal/model"
)

// FFmpeg invocation constants
const (
	FFmpegCommand = "ffmpeg"

	TagTimeout   = 60 * time.Second
	EmbedTimeout = 120 * time.Second

	// MetadataBlockPictureKey is the vorbis comment holding the cover art
	MetadataBlockPictureKey = "METADATA_BLOCK_PICTURE"

	// tempSuffix marks in-progress rewrite output next to the original
	tempSuffix = ".temp.opus"
)

// Runner executes an external command; satisfied by bootstrap.ExecRunner
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Service writes vorbis tags and embedded cover art into opus files by
// rewriting them with an ffmpeg stream copy.
type Service struct {
	runner     Runner
	ffmpegPath string
	logger     *log.Logger
}

// NewService creates a tagging service using the given ffmpeg executable
func NewService(runner Runner, ffmpegPath string, logger *log.Logger) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	return &Service{
		runner:     runner,
		ffmpegPath: ffmpegPath,
		logger:     logger,
	}
}

// WriteTags writes track metadata into an opus file. The file is rewritten
// into a temp sibling and atomically swapped in on success.
func (s *Service) WriteTags(ctx context.Context, opusPath string, meta model.TrackMetadata) error {
	if _, err := os.Stat(opusPath); err != nil {
		return fmt.Errorf("cannot tag missing file: %w", err)
	}

	metaArgs := BuildMetadataArgs(meta)
	if len(metaArgs) == 0 {
		s.logger.Debug("no metadata to write", "file", filepath.Base(opusPath))
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, TagTimeout)
	defer cancel()

	return s.rewrite(ctx, opusPath, metaArgs)
}

// EmbedCover embeds a cover image into an opus file as a front-cover
// METADATA_BLOCK_PICTURE comment.
func (s *Service) EmbedCover(ctx context.Context, opusPath, coverPath string) error {
	block, err := BuildPictureBlock(coverPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, EmbedTimeout)
	defer cancel()

	metaArgs := []string{"-metadata", MetadataBlockPictureKey + "=" + block}
	if err := s.rewrite(ctx, opusPath, metaArgs); err != nil {
		return fmt.Errorf("failed to embed cover into %s: %w", filepath.Base(opusPath), err)
	}
	return nil
}

// rewrite performs the stream-copy rewrite with extra metadata arguments
func (s *Service) rewrite(ctx context.Context, opusPath string, metaArgs []string) error {
	tempPath := strings.TrimSuffix(opusPath, filepath.Ext(opusPath)) + tempSuffix

	args := []string{"-i", opusPath, "-c", "copy", "-map_metadata", "0"}
	args = append(args, metaArgs...)
	args = append(args, "-y", tempPath)

	if err := s.runner.Run(ctx, s.ffmpegPath, args...); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("ffmpeg rewrite failed: %w", err)
	}

	if err := os.Rename(tempPath, opusPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace original file: %w", err)
	}
	return nil
}

// BuildMetadataArgs converts track metadata into ffmpeg -metadata arguments.
// Empty fields are omitted.
func BuildMetadataArgs(meta model.TrackMetadata) []string {
	var args []string

	appendTag := func(key, value string) {
		if value != "" {
			args = append(args, "-metadata", key+"="+value)
		}
	}

	appendTag("artist", meta.Artist)
	appendTag("title", meta.Title)
	appendTag("album", meta.Album)
	appendTag("track", meta.TrackNumber)
	appendTag("date", meta.Date())
	appendTag("genre", meta.Genre)

	return args
}

// BatchResult summarizes a folder embedding pass
type BatchResult struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
}

// ListOpusFiles returns every opus file in a folder, erroring when there
// are none.
func ListOpusFiles(folder string) ([]string, error) {
	opusFiles, err := filepath.Glob(filepath.Join(folder, "*"+".opus"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}
	if len(opusFiles) == 0 {
		return nil, fmt.Errorf("no .opus files found in %s", folder)
	}
	return opusFiles, nil
}

// EmbedFolder embeds matching cover art into every opus file in a folder.
// Files without any discoverable cover are counted as skipped.
func (s *Service) EmbedFolder(ctx context.Context, folder string) (BatchResult, error) {
	opusFiles, err := ListOpusFiles(folder)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{Total: len(opusFiles)}
	for _, opusFile := range opusFiles {
		cover := FindCover(opusFile)
		if cover == "" {
			s.logger.Warn("no matching cover art", "file", filepath.Base(opusFile))
			result.Skipped++
			continue
		}

		s.logger.Debug("embedding cover", "file", filepath.Base(opusFile), "cover", filepath.Base(cover))
		if err := s.EmbedCover(ctx, opusFile, cover); err != nil {
			s.logger.Error("embed failed", "file", filepath.Base(opusFile), "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}

	return result, nil
}
