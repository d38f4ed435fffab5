package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finnapple/opusgrab/internal/bootstrap"
	"github.com/finnapple/opusgrab/internal/download"
	"github.com/finnapple/opusgrab/internal/model"
	"github.com/finnapple/opusgrab/internal/platform"
	"github.com/finnapple/opusgrab/internal/tag"
)

var (
	getURLFile string
	getRetry   bool
	getOutDir  string
)

var getCmd = &cobra.Command{
	Use:   "get [url...]",
	Short: "Download tracks, playlists, or albums as opus files",
	Long: `Download one or more YouTube Music URLs as opus files.

Single tracks go into the download directory; playlists and albums get
their own subfolder named after the playlist. Files that already exist
are skipped. Tracks that fail end up in the failed-downloads log and
can be retried with --retry.`,
	Example: `  opusgrab get https://music.youtube.com/watch?v=dQw4w9WgXcQ
  opusgrab get https://music.youtube.com/playlist?list=PL123
  opusgrab get --file urls.txt
  opusgrab get --retry`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		urls := args
		if getURLFile != "" {
			fileURLs, err := readURLFile(getURLFile)
			if err != nil {
				return err
			}
			urls = append(urls, fileURLs...)
		}
		if len(urls) == 0 && !getRetry {
			return fmt.Errorf("no URLs given: pass URLs, --file, or --retry")
		}

		svc, err := newDownloadService()
		if err != nil {
			return err
		}

		failed := 0
		for _, url := range urls {
			if err := svc.ProcessURL(cmd.Context(), url); err != nil {
				fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
				failed++
			}
		}

		if getRetry {
			attempted, err := svc.RetryFailed(cmd.Context())
			if err != nil {
				return err
			}
			if attempted == 0 {
				fmt.Println("No failed downloads to retry.")
			}
		}

		if failed > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d URLs failed", failed, len(urls))}
		}
		if len(urls) > 0 {
			fmt.Println(SuccessStyle.Render(fmt.Sprintf("Done: %d URL(s) processed.", len(urls))))
		}
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getURLFile, "file", "", "read URLs from a file, one per line")
	getCmd.Flags().BoolVar(&getRetry, "retry", false, "retry URLs from the failed-downloads log")
	getCmd.Flags().StringVarP(&getOutDir, "output", "o", "", "download directory (overrides config)")
}

// newDownloadService assembles the download pipeline from configuration
func newDownloadService() (*download.Service, error) {
	downloadDir := settings.GetDownloadDirectory()
	if getOutDir != "" {
		downloadDir = getOutDir
	}
	if err := platform.CreateDirectoryIfNotExists(downloadDir); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	venvDir := settings.GetVenvDirectory()
	ytdlpPath := platform.ResolveTool(venvDir, "yt-dlp")
	ffmpegPath := platform.ResolveTool(venvDir, "ffmpeg")
	runner := &bootstrap.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}

	svc := download.NewService(download.Options{
		DownloadDir: downloadDir,
		MaxParallel: settings.GetMaxParallelDownloads(),
		Format:      download.FormatForPreset(string(settings.GetQualityPreset())),
		Template:    settings.GetFilenameTemplate(),
		YtdlpPath:   ytdlpPath,
		FFmpegPath:  ffmpegPath,
		Prober:      platform.NewProbeService(ytdlpPath),
		Resolver:    platform.NewPlaylistService(),
		Tagger:      tag.NewService(runner, ffmpegPath, logger),
		Runner:      runner,
		FailLog:     download.NewFailLog(settings.GetFailedLogPath()),
		Logger:      logger,
	})

	svc.SetUpdateCallback(func(task *model.TrackTask) {
		if task.Status == model.TaskStatusDownloading && task.Percent > 0 {
			logger.Debug("progress", "title", task.GetDisplayTitle(),
				"percent", task.Percent, "speed", task.Speed, "eta", task.GetETAString())
		}
	})
	return svc, nil
}

// readURLFile reads URLs from a file, one per line, skipping blanks and
// lines starting with '#'.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}
