// Package cli contains all commands of the opusgrab command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/finnapple/opusgrab/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// settings is the loaded configuration, available to every command
	settings *config.Settings
	// logger is the shared structured logger
	logger *log.Logger

	rootCmd = &cobra.Command{
		Use:   "opusgrab",
		Short: "Download YouTube Music tracks as tagged opus files",
		Long: TitleStyle.Render("opusgrab") + SubtitleStyle.Render(" - YouTube Music opus downloader") + `

opusgrab downloads tracks, playlists, and albums from YouTube Music as
opus files without re-encoding, tags them with artist and album
metadata, and can embed cover art directly into the opus container.

The external tools it drives (yt-dlp, ffmpeg bindings, mutagen) live in
a Python virtual environment provisioned by 'opusgrab setup'.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'opusgrab setup' once to provision the tool environment
  2. Download with: opusgrab get <url>
  3. Embed covers with: opusgrab embed <folder>`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/opusgrab/config.yaml)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(doctorCmd)
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads configuration and sets up the shared logger
func initRootConfig() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "opusgrab",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	settings, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		settings, _ = config.Load("")
	}
}
