package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/finnapple/opusgrab/internal/model"
)

// Timeouts for the exec-based fallback methods
const (
	streamURLTimeout  = 30 * time.Second
	streamCopyTimeout = 300 * time.Second
	convertTimeout    = 600 * time.Second
)

// progressInterval is how often yt-dlp reports download progress
const progressInterval = 500 * time.Millisecond

// downloadOpusDirect downloads the opus audio stream with yt-dlp directly.
// This is the preferred method: no re-encoding, original quality.
func (s *Service) downloadOpusDirect(ctx context.Context, task *model.TrackTask, outputPath string) error {
	dir := filepath.Dir(outputPath)

	dl := ytdlp.New().
		Format(s.format).
		NoPlaylist().
		RestrictFilenames().
		ForceOverwrites().
		Output(filepath.Join(dir, s.template))

	dl.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
		s.updateTaskProgress(task, &update)
	})

	result, err := dl.Run(ctx, task.URL)
	if err != nil {
		return fmt.Errorf("yt-dlp download failed: %w", err)
	}

	downloaded, err := downloadedFile(result, dir)
	if err != nil {
		return err
	}
	if downloaded == outputPath {
		return nil
	}
	if err := os.Rename(downloaded, outputPath); err != nil {
		return fmt.Errorf("failed to move downloaded file: %w", err)
	}
	return nil
}

// downloadedFile locates the file yt-dlp produced, preferring the path
// reported in the extracted info and falling back to the newest audio
// file in the download folder.
func downloadedFile(result *ytdlp.Result, dir string) (string, error) {
	if info, err := result.GetExtractedInfo(); err == nil && len(info) > 0 {
		if info[0].Filename != nil && *info[0].Filename != "" {
			path := *info[0].Filename
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	var candidates []string
	for _, pattern := range []string{"*.opus", "*.webm"} {
		matches, _ := filepath.Glob(filepath.Join(dir, pattern))
		candidates = append(candidates, matches...)
	}

	var newest string
	var newestTime time.Time
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("could not locate downloaded file in %s", dir)
	}
	return newest, nil
}

// downloadStreamCopy resolves the stream URL with yt-dlp and copies it
// with ffmpeg, avoiding yt-dlp's own downloader entirely.
func (s *Service) downloadStreamCopy(ctx context.Context, task *model.TrackTask, outputPath string) error {
	urlCtx, cancel := context.WithTimeout(ctx, streamURLTimeout)
	defer cancel()

	out, err := s.runner.Output(urlCtx, s.ytdlpPath,
		"-f", FormatOpusPreferred,
		"--get-url",
		"--no-playlist",
		task.URL)
	if err != nil {
		return fmt.Errorf("failed to resolve stream URL: %w", err)
	}

	streamURL := strings.TrimSpace(out)
	if streamURL == "" {
		return fmt.Errorf("yt-dlp returned no stream URL for %s", task.URL)
	}

	copyCtx, cancel := context.WithTimeout(ctx, streamCopyTimeout)
	defer cancel()

	if err := s.runner.Run(copyCtx, s.ffmpegPath,
		"-i", streamURL,
		"-c", "copy",
		"-vn",
		"-y", outputPath); err != nil {
		return fmt.Errorf("ffmpeg stream copy failed: %w", err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("stream copy produced no output file: %w", err)
	}
	return nil
}

// downloadConvert is the last resort: extract whatever audio yt-dlp can
// get and convert it to opus.
func (s *Service) downloadConvert(ctx context.Context, task *model.TrackTask, outputPath string) error {
	dir := filepath.Dir(outputPath)
	tempBase := filepath.Join(dir, fmt.Sprintf("temp_%d", time.Now().Unix()))

	convCtx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	if err := s.runner.Run(convCtx, s.ytdlpPath,
		"-f", s.format,
		"-x",
		"--audio-format", "opus",
		"--audio-quality", "0",
		"--no-playlist",
		"--no-overwrites",
		"--restrict-filenames",
		"-o", tempBase+".%(ext)s",
		task.URL); err != nil {
		return fmt.Errorf("yt-dlp convert failed: %w", err)
	}

	for _, ext := range []string{".opus", ".webm"} {
		temp := tempBase + ext
		if _, err := os.Stat(temp); err == nil {
			if err := os.Rename(temp, outputPath); err != nil {
				return fmt.Errorf("failed to move converted file: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("convert produced no output file for %s", task.URL)
}

// updateTaskProgress maps a yt-dlp progress update onto the task
func (s *Service) updateTaskProgress(task *model.TrackTask, update *ytdlp.ProgressUpdate) {
	s.mu.Lock()

	if update.TotalBytes > 0 {
		task.Progress = float64(update.DownloadedBytes) / float64(update.TotalBytes)
		task.Percent = int(task.Progress * 100)
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			task.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
		}
	}

	if eta := update.ETA(); eta > 0 {
		task.ETASec = int(eta.Seconds())
	}

	if task.Metadata.Title == "" && update.Info.Title != nil {
		task.Metadata.Title = *update.Info.Title
	}

	s.mu.Unlock()
	s.notifyUpdate(task)
}
