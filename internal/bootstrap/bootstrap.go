package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/finnapple/opusgrab/internal/platform"
)

// Packages is the fixed set of Python packages installed into the virtual
// environment, identical across platforms: the downloader, the ffmpeg
// binding, the tagging library, and the image library.
var Packages = []string{"yt-dlp", "ffmpeg-python", "mutagen", "Pillow"}

// ErrRuntimeMissing is returned when no Python interpreter is found on PATH
var ErrRuntimeMissing = errors.New("python runtime not found")

// InstallError wraps a failed installation step with the exit code of the
// underlying package manager invocation.
type InstallError struct {
	Step     string
	ExitCode int
	Err      error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("%s failed (exit code %d): %v", e.Step, e.ExitCode, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Bootstrapper provisions the Python virtual environment that the external
// download and tagging tools live in.
type Bootstrapper struct {
	runner  Runner
	venvDir string
	python  string
	out     io.Writer
	in      io.Reader
	logger  *log.Logger

	// WaitForKey blocks for a keypress after a successful run. Enabled on
	// Windows when attached to a terminal so double-clicked runs keep the
	// console window open.
	WaitForKey bool
}

// New creates a bootstrapper writing user messages to out
func New(runner Runner, venvDir string, out io.Writer, logger *log.Logger) *Bootstrapper {
	return &Bootstrapper{
		runner:  runner,
		venvDir: venvDir,
		python:  platform.PythonInterpreter(),
		out:     out,
		logger:  logger,
	}
}

// SetPython overrides the interpreter used for detection and venv creation
func (b *Bootstrapper) SetPython(python string) {
	b.python = python
}

// SetStdin sets the reader used for the completion keypress
func (b *Bootstrapper) SetStdin(in io.Reader) {
	b.in = in
}

// Run executes the linear bootstrap sequence: runtime detection, venv
// creation, pip self-upgrade, batch dependency installation, completion
// message. Any step failure aborts the rest.
func (b *Bootstrapper) Run(ctx context.Context) error {
	if err := b.detectRuntime(ctx); err != nil {
		return err
	}
	if err := b.createVenv(ctx); err != nil {
		return err
	}

	// Activation is process-local: installation commands below address the
	// venv's own pip by absolute path instead of sourcing a shell script.
	pip := platform.VenvTool(b.venvDir, "pip")

	if err := b.upgradePip(ctx, pip); err != nil {
		return err
	}
	if err := b.installPackages(ctx, pip); err != nil {
		return err
	}

	b.printCompletion()
	return nil
}

// detectRuntime verifies a Python interpreter responds to a version query
func (b *Bootstrapper) detectRuntime(ctx context.Context) error {
	version, err := b.runner.Output(ctx, b.python, "--version")
	if err != nil {
		fmt.Fprintf(b.out, "Error: %s is not installed or not on PATH.\n", b.python)
		fmt.Fprintln(b.out, "Install Python 3 and run setup again.")
		return fmt.Errorf("%w: %s", ErrRuntimeMissing, b.python)
	}

	b.logger.Debug("runtime detected", "python", b.python, "version", strings.TrimSpace(version))
	fmt.Fprintf(b.out, "Found %s\n", strings.TrimSpace(version))
	return nil
}

// createVenv creates the virtual environment. python -m venv is idempotent
// on an existing environment directory.
func (b *Bootstrapper) createVenv(ctx context.Context) error {
	b.logger.Debug("creating virtual environment", "dir", b.venvDir)
	fmt.Fprintf(b.out, "Creating virtual environment in %s...\n", b.venvDir)

	if err := b.runner.Run(ctx, b.python, "-m", "venv", b.venvDir); err != nil {
		return &InstallError{Step: "virtual environment creation", ExitCode: ExitCode(err), Err: err}
	}
	return nil
}

// upgradePip upgrades the package manager inside the venv
func (b *Bootstrapper) upgradePip(ctx context.Context, pip string) error {
	b.logger.Debug("upgrading pip", "pip", pip)
	fmt.Fprintln(b.out, "Upgrading pip...")

	if err := b.runner.Run(ctx, pip, "install", "--upgrade", "pip"); err != nil {
		return &InstallError{Step: "pip self-upgrade", ExitCode: ExitCode(err), Err: err}
	}
	return nil
}

// installPackages installs the fixed package list in one batch call
func (b *Bootstrapper) installPackages(ctx context.Context, pip string) error {
	b.logger.Debug("installing packages", "packages", strings.Join(Packages, " "))
	fmt.Fprintf(b.out, "Installing packages: %s\n", strings.Join(Packages, ", "))

	args := append([]string{"install"}, Packages...)
	if err := b.runner.Run(ctx, pip, args...); err != nil {
		return &InstallError{Step: "package installation", ExitCode: ExitCode(err), Err: err}
	}
	return nil
}

// printCompletion prints the success message and optionally blocks for a
// keypress on Windows.
func (b *Bootstrapper) printCompletion() {
	fmt.Fprintln(b.out, "Installation complete! You can now run 'opusgrab get' and 'opusgrab embed'.")

	if b.WaitForKey && runtime.GOOS == "windows" && b.in != nil {
		fmt.Fprintln(b.out, "Press Enter to exit...")
		reader := bufio.NewReader(b.in)
		_, _ = reader.ReadString('\n')
	}
}
