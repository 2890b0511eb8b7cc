// Package moonlight wraps the Moonlight game-streaming client's command line
// interface: finding the executable, listing the apps a host offers and
// building the invocations that stream them.
package moonlight

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FlatpakRef is the Flatpak application ID of the Moonlight client.
const FlatpakRef = "com.moonlight_stream.Moonlight"

// Launcher describes how Moonlight gets invoked: a binary directly, or the
// flatpak binary with the run arguments in front.
type Launcher struct {
	Exe  string
	Args []string
}

// NewLauncher resolves the Moonlight executable. An explicit path wins; an
// empty one searches PATH.
func NewLauncher(explicit string) (*Launcher, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return nil, fmt.Errorf("resolve moonlight path %s: %w", explicit, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("moonlight at %s: %w", abs, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("moonlight at %s is a directory, not an executable", abs)
		}
		return &Launcher{Exe: abs}, nil
	}

	path, err := exec.LookPath("moonlight")
	if err != nil {
		return nil, fmt.Errorf("moonlight executable not found in PATH: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Launcher{Exe: abs}, nil
}

// NewFlatpakLauncher invokes Moonlight through its Flatpak installation.
func NewFlatpakLauncher() (*Launcher, error) {
	path, err := exec.LookPath("flatpak")
	if err != nil {
		return nil, fmt.Errorf("flatpak executable not found in PATH: %w", err)
	}
	return &Launcher{Exe: path, Args: []string{"run", FlatpakRef}}, nil
}

// Command returns the executable and full argument list for a Moonlight
// subcommand.
func (l *Launcher) Command(args ...string) (string, []string) {
	full := make([]string, 0, len(l.Args)+len(args))
	full = append(full, l.Args...)
	full = append(full, args...)
	return l.Exe, full
}

// StartDir returns the working directory a Steam shortcut should start the
// launcher in.
func (l *Launcher) StartDir() string {
	return filepath.Dir(l.Exe)
}

// LaunchOptions builds the Steam launch options that stream title from host.
// The title is quoted because app names routinely contain spaces.
func (l *Launcher) LaunchOptions(host, title string) string {
	opts := fmt.Sprintf(`stream %s "%s"`, host, title)
	if len(l.Args) > 0 {
		return strings.Join(l.Args, " ") + " " + opts
	}
	return opts
}
