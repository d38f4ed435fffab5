package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/finnapple/opusgrab/internal/bootstrap"
)

var setupPython string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the Python tool environment",
	Long: `Provision the virtual environment that the external download and
tagging tools live in.

Setup detects the Python interpreter, creates a virtual environment,
upgrades pip, and installs the tool packages in one batch. Running it
again on an existing environment is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := &bootstrap.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
		b := bootstrap.New(runner, settings.GetVenvDirectory(), os.Stdout, logger)
		if setupPython != "" {
			b.SetPython(setupPython)
		}

		// Keep a double-clicked console window open on Windows
		if runtime.GOOS == "windows" && isatty.IsTerminal(os.Stdin.Fd()) {
			b.WaitForKey = true
			b.SetStdin(os.Stdin)
		}

		err := b.Run(cmd.Context())
		if err == nil {
			return nil
		}

		if errors.Is(err, bootstrap.ErrRuntimeMissing) {
			return &ExitError{Code: 1, Err: err}
		}
		var instErr *bootstrap.InstallError
		if errors.As(err, &instErr) {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+instErr.Error())
			return &ExitError{Code: instErr.ExitCode, Err: err}
		}
		return err
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupPython, "python", "", "Python interpreter to use (default python3)")
}
