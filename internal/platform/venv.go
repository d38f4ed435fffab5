package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Virtual environment layout
const (
	DefaultVenvDir = "venv"

	venvBinUnix    = "bin"
	venvBinWindows = "Scripts"
)

// VenvBinDir returns the directory holding executables inside a venv
func VenvBinDir(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, venvBinWindows)
	}
	return filepath.Join(venvDir, venvBinUnix)
}

// VenvTool returns the absolute path of a tool inside a venv. The returned
// path is not checked for existence.
func VenvTool(venvDir, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(VenvBinDir(venvDir), name)
}

// ResolveTool returns the venv-local path of a tool when the venv provides
// it, otherwise the bare name for PATH lookup.
func ResolveTool(venvDir, name string) string {
	if venvDir != "" {
		local := VenvTool(venvDir, name)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	return name
}

// PythonInterpreter returns the name of the host python interpreter to
// probe for. Windows installs commonly expose only "python".
func PythonInterpreter() string {
	if runtime.GOOS == "windows" {
		if _, err := exec.LookPath("python3"); err != nil {
			return "python"
		}
	}
	return "python3"
}
