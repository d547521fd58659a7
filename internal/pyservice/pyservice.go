// Package pyservice locates and launches the Python helper services that
// wrap MediaPipe and speech recognition.
package pyservice

import (
	"os"
	"os/exec"
	"path/filepath"
)

// FindScript looks for a helper script next to the binary, in the working
// directory and in ~/.holohud/scripts. It returns "" when nothing is found.
func FindScript(name string) string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	return firstExisting(
		filepath.Join("scripts", name),
		filepath.Join("..", "scripts", name),
		filepath.Join(execDir, "scripts", name),
		filepath.Join(os.Getenv("HOME"), ".holohud", "scripts", name),
	)
}

// FindPython looks for a Python interpreter in a virtual environment and
// falls back to python3 on PATH.
func FindPython() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	venv := firstExisting(
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".holohud/venv/bin/python"),
	)
	if venv == "" {
		return "python3"
	}
	return venv
}

// Command builds the command running script with args. Stderr is passed
// through so service tracebacks reach the terminal.
func Command(script string, args ...string) *exec.Cmd {
	cmd := exec.Command(FindPython(), append([]string{script}, args...)...)
	cmd.Stderr = os.Stderr
	return cmd
}

func firstExisting(candidates ...string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}
