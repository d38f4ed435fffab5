package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finnapple/opusgrab/internal/cleanup"
)

var (
	cleanAll    bool
	cleanDryRun bool
	cleanYes    bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [folder]",
	Short: "Delete leftover cover images from a download folder",
	Long: `Delete cover images left behind after embedding.

By default only images whose name matches an opus file in the folder
are deleted; --all removes every image. Opus files are never touched.
Use --dry-run to preview the plan without deleting anything.

The folder defaults to the configured download directory.`,
	Example: `  opusgrab clean --dry-run
  opusgrab clean ~/Music/My\ Mix
  opusgrab clean ~/Music/My\ Mix --all --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := settings.GetDownloadDirectory()
		if len(args) == 1 {
			folder = args[0]
		}

		scan, err := cleanup.ScanFolder(folder)
		if err != nil {
			return err
		}
		if len(scan.Images) == 0 {
			fmt.Println("No images found, nothing to clean.")
			return nil
		}

		mode := cleanup.ModeMatching
		if cleanAll {
			mode = cleanup.ModeAll
		}
		plan := cleanup.BuildPlan(scan, mode)

		if len(plan.Delete) == 0 {
			fmt.Println("No images match, nothing to clean.")
			return nil
		}

		fmt.Printf("Would delete %d image(s) in %s:\n", len(plan.Delete), folder)
		for _, img := range plan.Delete {
			fmt.Println("  " + img)
		}
		for _, img := range plan.Keep {
			fmt.Println(SubtitleStyle.Render("  keeping " + img))
		}

		if cleanDryRun {
			fmt.Println(SubtitleStyle.Render("Dry run, nothing deleted."))
			return nil
		}

		if !cleanYes && !confirm("Delete these files?") {
			fmt.Println("Aborted.")
			return nil
		}

		result := cleanup.Apply(plan)
		for _, err := range result.Errors {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+err.Error())
		}
		fmt.Println(SuccessStyle.Render(fmt.Sprintf("Deleted %d image(s).", result.Deleted)))

		if len(result.Errors) > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d deletions failed", len(result.Errors))}
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "delete every image, not just matching ones")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "show the deletion plan without deleting")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "skip the confirmation prompt")
}

// confirm asks a yes/no question on stdin
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
