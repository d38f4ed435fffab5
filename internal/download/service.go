package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/finnapple/opusgrab/internal/model"
	"github.com/finnapple/opusgrab/internal/platform"
)

// Scheduling constants
const (
	// TrackPacing is the delay between playlist track submissions
	TrackPacing = 1 * time.Second

	// TaskIDPrefix namespaces generated task IDs
	TaskIDPrefix = "track-"

	// DefaultTemplate is the yt-dlp output filename template
	DefaultTemplate = "%(title)s.%(ext)s"
)

// yt-dlp format selectors per quality preset
const (
	FormatOpusPreferred = "bestaudio[ext=webm][acodec=opus]/bestaudio"
	FormatBest          = "bestaudio/best"
	FormatMedium        = "bestaudio[abr<=128]/bestaudio"
)

// FormatForPreset maps a quality preset name to a yt-dlp format selector
func FormatForPreset(preset string) string {
	switch preset {
	case "best":
		return FormatBest
	case "medium":
		return FormatMedium
	default:
		return FormatOpusPreferred
	}
}

// methodFunc is one download strategy writing the track to outputPath
type methodFunc func(ctx context.Context, task *model.TrackTask, outputPath string) error

// downloadMethod pairs a strategy with the name recorded on the task
type downloadMethod struct {
	name model.DownloadMethod
	run  methodFunc
}

// Options configures a download service
type Options struct {
	DownloadDir string
	MaxParallel int
	Format      string
	Template    string // yt-dlp output filename template
	YtdlpPath   string
	FFmpegPath  string
	Prober      Prober
	Resolver    Resolver
	Tagger      Tagger
	Runner      Runner
	FailLog     *FailLog
	Logger      *log.Logger
}

// Service downloads YouTube Music tracks as opus files. Single tracks run
// synchronously; playlist entries run through a bounded worker pool with
// pacing between submissions.
type Service struct {
	mu    sync.RWMutex
	tasks map[string]*model.TrackTask

	downloadDir string
	maxParallel int
	format      string
	template    string
	ytdlpPath   string
	ffmpegPath  string

	prober   Prober
	resolver Resolver
	tagger   Tagger
	runner   Runner
	failLog  *FailLog
	logger   *log.Logger

	onUpdate func(*model.TrackTask)
	methods  []downloadMethod
	pacing   time.Duration
}

// NewService creates a download service
func NewService(opts Options) *Service {
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	if opts.Format == "" {
		opts.Format = FormatOpusPreferred
	}
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	if opts.YtdlpPath == "" {
		opts.YtdlpPath = "yt-dlp"
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}

	s := &Service{
		tasks:       make(map[string]*model.TrackTask),
		downloadDir: opts.DownloadDir,
		maxParallel: opts.MaxParallel,
		format:      opts.Format,
		template:    opts.Template,
		ytdlpPath:   opts.YtdlpPath,
		ffmpegPath:  opts.FFmpegPath,
		prober:      opts.Prober,
		resolver:    opts.Resolver,
		tagger:      opts.Tagger,
		runner:      opts.Runner,
		failLog:     opts.FailLog,
		logger:      opts.Logger,
		pacing:      TrackPacing,
	}
	s.methods = []downloadMethod{
		{model.MethodOpusDirect, s.downloadOpusDirect},
		{model.MethodStreamCopy, s.downloadStreamCopy},
		{model.MethodConvert, s.downloadConvert},
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.TrackTask)) {
	s.onUpdate = callback
}

// SetPacing overrides the delay between playlist track submissions
func (s *Service) SetPacing(pacing time.Duration) {
	s.pacing = pacing
}

// FailLog returns the failed-downloads log
func (s *Service) FailLog() *FailLog {
	return s.failLog
}

// GetAllTasks returns all tasks, oldest first
func (s *Service) GetAllTasks() []*model.TrackTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*model.TrackTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// ProcessURL downloads a single track, playlist, or album URL, blocking
// until every involved track has finished.
func (s *Service) ProcessURL(ctx context.Context, url string) error {
	switch platform.ClassifyURL(url) {
	case platform.URLInvalid:
		return fmt.Errorf("not a YouTube URL: %s", url)
	case platform.URLPlaylist, platform.URLAlbum:
		return s.processPlaylist(ctx, url)
	default:
		task := s.newTask(url)
		return s.runTask(ctx, task, s.downloadDir)
	}
}

// RetryFailed re-runs every URL recorded in the failed-downloads log.
// Returns the number of URLs attempted.
func (s *Service) RetryFailed(ctx context.Context) (int, error) {
	urls, err := LoadURLs(s.failLog.Path())
	if err != nil {
		return 0, err
	}
	if len(urls) == 0 {
		return 0, nil
	}

	s.logger.Info("retrying failed downloads", "count", len(urls))
	for _, url := range urls {
		if ctx.Err() != nil {
			return len(urls), ctx.Err()
		}
		if err := s.ProcessURL(ctx, url); err != nil {
			s.logger.Warn("retry still failing", "url", url, "err", err)
		}
	}
	return len(urls), nil
}

// processPlaylist resolves a playlist and downloads its entries into a
// subfolder named after the playlist.
func (s *Service) processPlaylist(ctx context.Context, url string) error {
	playlist, err := s.resolver.Resolve(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to resolve playlist: %w", err)
	}
	if playlist.Total() == 0 {
		return fmt.Errorf("playlist has no entries: %s", url)
	}

	dir := filepath.Join(s.downloadDir, platform.SafeFolderName(playlist.Title))
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create playlist folder: %w", err)
	}

	s.logger.Info("downloading playlist", "title", playlist.Title, "tracks", playlist.Total())
	playlist.UpdateStatus(model.PlaylistStatusDownloading)

	var (
		wg        sync.WaitGroup
		counterMu sync.Mutex
	)
	sem := make(chan struct{}, s.maxParallel)

	for i, entry := range playlist.Entries {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(entry model.PlaylistEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			task := s.newTask(entry.URL)
			err := s.runTask(ctx, task, dir)

			counterMu.Lock()
			if err != nil {
				playlist.Failed++
			} else {
				playlist.Downloaded++
			}
			counterMu.Unlock()
		}(entry)

		if i < playlist.Total()-1 {
			select {
			case <-time.After(s.pacing):
			case <-ctx.Done():
			}
		}
	}
	wg.Wait()

	if playlist.Downloaded == 0 {
		playlist.UpdateStatus(model.PlaylistStatusError)
		return fmt.Errorf("no tracks downloaded from playlist %s", playlist.Title)
	}

	playlist.UpdateStatus(model.PlaylistStatusCompleted)
	s.logger.Info("playlist finished", "title", playlist.Title,
		"downloaded", playlist.Downloaded, "failed", playlist.Failed)
	return nil
}

// newTask registers a pending task for a URL
func (s *Service) newTask(url string) *model.TrackTask {
	task := &model.TrackTask{
		ID:        generateTaskID(),
		URL:       url,
		Status:    model.TaskStatusPending,
		ETASec:    -1,
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()
	return task
}

// runTask executes the full per-track pipeline: probe, skip check, the
// download method chain, then tagging. Failures are recorded in the
// failed-downloads log.
func (s *Service) runTask(ctx context.Context, task *model.TrackTask, dir string) error {
	s.setStatus(task, model.TaskStatusProbing)

	meta, err := s.prober.Probe(ctx, task.URL)
	if err != nil {
		return s.failTask(task, fmt.Errorf("failed to get track information: %w", err))
	}

	s.mu.Lock()
	task.Metadata = meta
	s.mu.Unlock()

	outputPath := filepath.Join(dir, platform.SafeFileName(meta.Title))
	if info, err := os.Stat(outputPath); err == nil {
		s.logger.Info("file already exists, skipping", "file", filepath.Base(outputPath))
		s.finishTask(task, model.TaskStatusSkipped, outputPath, info.Size())
		return nil
	}

	s.logger.Info("downloading", "artist", meta.Artist, "title", meta.Title)
	s.setStatus(task, model.TaskStatusDownloading)

	var lastErr error
	for _, method := range s.methods {
		if ctx.Err() != nil {
			s.setStatus(task, model.TaskStatusStopped)
			return ctx.Err()
		}
		if lastErr = method.run(ctx, task, outputPath); lastErr == nil {
			s.mu.Lock()
			task.Method = method.name
			s.mu.Unlock()
			break
		}
		s.logger.Warn("download method failed", "title", meta.Title,
			"method", method.name, "err", lastErr)
	}
	if lastErr != nil {
		return s.failTask(task, fmt.Errorf("all download methods failed: %w", lastErr))
	}

	// Tagging is non-critical; keep the file even when it fails
	s.setStatus(task, model.TaskStatusTagging)
	if s.tagger != nil {
		if err := s.tagger.WriteTags(ctx, outputPath, meta); err != nil {
			s.logger.Warn("could not write tags", "file", filepath.Base(outputPath), "err", err)
		}
	}

	var size int64
	if info, err := os.Stat(outputPath); err == nil {
		size = info.Size()
	}
	s.finishTask(task, model.TaskStatusCompleted, outputPath, size)
	s.logger.Info("downloaded", "file", filepath.Base(outputPath), "size_mb", fmt.Sprintf("%.1f", float64(size)/1024/1024))
	return nil
}

// failTask records a failure in the log and marks the task errored
func (s *Service) failTask(task *model.TrackTask, cause error) error {
	if s.failLog != nil {
		title := task.Metadata.Title
		if title == "" {
			title = platform.UnknownTitle
		}
		artist := task.Metadata.Artist
		if artist == "" {
			artist = platform.UnknownArtist
		}
		if err := s.failLog.Add(task.URL, title, artist, cause.Error()); err != nil {
			s.logger.Warn("could not write failed-downloads log", "err", err)
		}
	}

	s.mu.Lock()
	task.Status = model.TaskStatusError
	task.LastError = cause.Error()
	task.FinishedAt = time.Now()
	s.mu.Unlock()

	s.notifyUpdate(task)
	return cause
}

// finishTask marks a task finished in a terminal success state
func (s *Service) finishTask(task *model.TrackTask, status model.TaskStatus, outputPath string, size int64) {
	s.mu.Lock()
	task.Status = status
	task.OutputPath = outputPath
	task.FileSize = size
	task.Progress = 1.0
	task.Percent = 100
	task.FinishedAt = time.Now()
	s.mu.Unlock()

	s.notifyUpdate(task)
}

// setStatus transitions a task and notifies the callback
func (s *Service) setStatus(task *model.TrackTask, status model.TaskStatus) {
	s.mu.Lock()
	task.Status = status
	s.mu.Unlock()

	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.TrackTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique, time-ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
