package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finnapple/opusgrab/internal/bootstrap"
	"github.com/finnapple/opusgrab/internal/platform"
	"github.com/finnapple/opusgrab/internal/tag"
)

var embedCover string

var embedCmd = &cobra.Command{
	Use:   "embed [folder]",
	Short: "Embed cover art into opus files",
	Long: `Embed cover images into the opus files of a folder.

For every opus file the cover is discovered in this order: an image with
the same base name, then a common cover name (cover.jpg, album.jpg,
folder.jpg), then any image in the folder. Files without a discoverable
cover are skipped. With --cover a single specific image is embedded
into every file instead.

The folder defaults to the configured download directory.`,
	Example: `  opusgrab embed
  opusgrab embed ~/Music/My\ Mix
  opusgrab embed ~/Music/My\ Mix --cover cover.png`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := settings.GetDownloadDirectory()
		if len(args) == 1 {
			folder = args[0]
		}

		runner := &bootstrap.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
		venvDir := settings.GetVenvDirectory()
		svc := tag.NewService(runner, platform.ResolveTool(venvDir, "ffmpeg"), logger)

		var result tag.BatchResult
		var err error
		if embedCover != "" {
			result, err = embedFixedCover(cmd, svc, folder, embedCover)
		} else {
			result, err = svc.EmbedFolder(cmd.Context(), folder)
		}
		if err != nil {
			return err
		}

		fmt.Println(SuccessStyle.Render(fmt.Sprintf(
			"Embedded covers: %d processed, %d skipped, %d failed (of %d).",
			result.Processed, result.Skipped, result.Failed, result.Total)))
		if result.Failed > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d files failed", result.Failed)}
		}
		return nil
	},
}

func init() {
	embedCmd.Flags().StringVar(&embedCover, "cover", "", "embed this image into every opus file")
}

// embedFixedCover embeds one specific image into every opus file of a folder
func embedFixedCover(cmd *cobra.Command, svc *tag.Service, folder, cover string) (tag.BatchResult, error) {
	if _, err := os.Stat(cover); err != nil {
		return tag.BatchResult{}, fmt.Errorf("cover image not found: %w", err)
	}

	scan, err := tag.ListOpusFiles(folder)
	if err != nil {
		return tag.BatchResult{}, err
	}

	result := tag.BatchResult{Total: len(scan)}
	for _, opusPath := range scan {
		if err := svc.EmbedCover(cmd.Context(), opusPath, cover); err != nil {
			logger.Warn("could not embed cover", "file", opusPath, "err", err)
			result.Failed++
			continue
		}
		result.Processed++
	}
	return result, nil
}
