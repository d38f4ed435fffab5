package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// fakeRunner records invocations and fails commands matched by failOn
type fakeRunner struct {
	calls  []string
	failOn string
	err    error
}

func (f *fakeRunner) record(name string, args ...string) string {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	return call
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	call := f.record(name, args...)
	if f.failOn != "" && strings.Contains(call, f.failOn) {
		return f.err
	}
	return nil
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	call := f.record(name, args...)
	if f.failOn != "" && strings.Contains(call, f.failOn) {
		return "", f.err
	}
	return "Python 3.12.1\n", nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func newTestBootstrapper(runner Runner, out io.Writer) *Bootstrapper {
	logger := log.New(io.Discard)
	b := New(runner, "venv", out, logger)
	b.SetPython("python3")
	return b
}

func TestRun_Success(t *testing.T) {
	runner := &fakeRunner{}
	var out bytes.Buffer
	b := newTestBootstrapper(runner, &out)

	if err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	expected := []string{
		"python3 --version",
		"python3 -m venv venv",
	}
	if len(runner.calls) != 4 {
		t.Fatalf("expected 4 commands, got %d: %v", len(runner.calls), runner.calls)
	}
	for i, want := range expected {
		if runner.calls[i] != want {
			t.Errorf("call %d = %q, expected %q", i, runner.calls[i], want)
		}
	}
	if !strings.Contains(runner.calls[2], "install --upgrade pip") {
		t.Errorf("call 2 = %q, expected pip self-upgrade", runner.calls[2])
	}
	if !strings.Contains(runner.calls[3], "install yt-dlp ffmpeg-python mutagen Pillow") {
		t.Errorf("call 3 = %q, expected batch package install", runner.calls[3])
	}

	if got := strings.Count(out.String(), "Installation complete!"); got != 1 {
		t.Errorf("completion message printed %d times, expected exactly once", got)
	}
}

func TestRun_RuntimeMissing(t *testing.T) {
	runner := &fakeRunner{failOn: "--version", err: errors.New("executable file not found")}
	var out bytes.Buffer
	b := newTestBootstrapper(runner, &out)

	err := b.Run(context.Background())
	if !errors.Is(err, ErrRuntimeMissing) {
		t.Fatalf("expected ErrRuntimeMissing, got %v", err)
	}

	// No environment creation may be attempted after a failed runtime check
	if len(runner.calls) != 1 {
		t.Errorf("expected exactly 1 command before abort, got %v", runner.calls)
	}
	if strings.Contains(out.String(), "Installation complete!") {
		t.Error("completion message printed despite runtime failure")
	}
}

func TestRun_InstallFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "install yt-dlp", err: errors.New("could not resolve package")}
	var out bytes.Buffer
	b := newTestBootstrapper(runner, &out)

	err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected install failure, got nil")
	}

	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected *InstallError, got %T", err)
	}
	if installErr.Step != "package installation" {
		t.Errorf("Step = %q, expected %q", installErr.Step, "package installation")
	}
	if installErr.ExitCode == 0 {
		t.Error("ExitCode = 0 for a failed install")
	}
	if strings.Contains(out.String(), "Installation complete!") {
		t.Error("completion message printed despite install failure")
	}
}

func TestRun_VenvCreationFailure(t *testing.T) {
	runner := &fakeRunner{failOn: "-m venv", err: errors.New("permission denied")}
	var out bytes.Buffer
	b := newTestBootstrapper(runner, &out)

	err := b.Run(context.Background())
	var installErr *InstallError
	if !errors.As(err, &installErr) {
		t.Fatalf("expected *InstallError, got %v", err)
	}

	// pip must never run when the venv was not created
	for _, call := range runner.calls {
		if strings.Contains(call, "pip install") {
			t.Errorf("pip ran after venv creation failure: %q", call)
		}
	}
}

func TestPackages_FixedList(t *testing.T) {
	expected := []string{"yt-dlp", "ffmpeg-python", "mutagen", "Pillow"}
	if len(Packages) != len(expected) {
		t.Fatalf("Packages has %d entries, expected %d", len(Packages), len(expected))
	}
	for i, want := range expected {
		if Packages[i] != want {
			t.Errorf("Packages[%d] = %q, expected %q", i, Packages[i], want)
		}
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, expected 0", got)
	}
	if got := ExitCode(errors.New("plain error")); got != 1 {
		t.Errorf("ExitCode(plain) = %d, expected 1", got)
	}
}

func TestInstallError_Format(t *testing.T) {
	err := &InstallError{Step: "package installation", ExitCode: 2, Err: errors.New("boom")}
	msg := err.Error()
	if !strings.Contains(msg, "package installation") || !strings.Contains(msg, "2") {
		t.Errorf("InstallError message missing detail: %q", msg)
	}
	if !errors.Is(err, err.Err) {
		t.Error("InstallError does not unwrap to its cause")
	}
	_ = fmt.Sprintf("%v", err)
}
