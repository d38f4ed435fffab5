package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finnapple/opusgrab/internal/bootstrap"
	"github.com/finnapple/opusgrab/internal/platform"
)

// toolCheck describes one external tool the doctor verifies
type toolCheck struct {
	name     string
	args     []string
	required bool
	hint     string
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external tools are available",
	Long: `Check that every external tool the downloader depends on is
installed and responding. Tools installed by 'opusgrab setup' are
resolved from the virtual environment first, then from PATH.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		venvDir := settings.GetVenvDirectory()
		runner := &bootstrap.ExecRunner{}

		checks := []toolCheck{
			{name: platform.PythonInterpreter(), args: []string{"--version"}, required: true,
				hint: "install Python 3"},
			{name: platform.ResolveTool(venvDir, "pip"), args: []string{"--version"}, required: false,
				hint: "run 'opusgrab setup'"},
			{name: platform.ResolveTool(venvDir, "yt-dlp"), args: []string{"--version"}, required: true,
				hint: "run 'opusgrab setup'"},
			{name: platform.ResolveTool(venvDir, "ffmpeg"), args: []string{"-version"}, required: true,
				hint: "install ffmpeg"},
			{name: platform.ResolveTool(venvDir, "ffprobe"), args: []string{"-version"}, required: false,
				hint: "install ffmpeg (ffprobe ships with it)"},
		}

		missing := 0
		for _, check := range checks {
			out, err := runner.Output(cmd.Context(), check.name, check.args...)
			if err != nil {
				marker := ErrorStyle.Render("✗")
				if !check.required {
					marker = WarningStyle.Render("!")
				}
				fmt.Printf("%s %s: not found (%s)\n", marker, check.name, check.hint)
				if check.required {
					missing++
				}
				continue
			}
			fmt.Printf("%s %s: %s\n", SuccessStyle.Render("✓"), check.name, firstLine(out))
		}

		if missing > 0 {
			return &ExitError{Code: 1, Err: fmt.Errorf("%d required tool(s) missing", missing)}
		}
		fmt.Println(SuccessStyle.Render("All required tools available."))
		return nil
	},
}

// firstLine trims a version banner down to its first line
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
