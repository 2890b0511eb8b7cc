package steam

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Runner executes commands on the machine whose Steam is being controlled.
// internal/device implements it over SSH for remote hosts.
type Runner interface {
	// Run executes a command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// Start launches a command without waiting for it to finish.
	Start(name string, args ...string) error
}

// LocalRunner runs commands on this machine.
type LocalRunner struct{}

func (LocalRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func (LocalRunner) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// Controller restarts Steam so edited shortcuts get picked up. Steam only
// reads shortcuts.vdf on startup.
type Controller struct {
	run    Runner
	goos   string
	getenv func(string) string
	wait   time.Duration
}

// NewController controls the local Steam installation.
func NewController() *Controller {
	return &Controller{
		run:    LocalRunner{},
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		wait:   15 * time.Second,
	}
}

// NewRemoteController controls Steam on a remote Linux host through run.
// getenv reads the remote session environment and may be nil.
func NewRemoteController(run Runner, getenv func(string) string) *Controller {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Controller{
		run:    run,
		goos:   "linux",
		getenv: getenv,
		wait:   15 * time.Second,
	}
}

// IsRunning checks if Steam is currently running.
func (c *Controller) IsRunning(ctx context.Context) bool {
	if c.goos == "windows" {
		out, err := c.run.Run(ctx, "tasklist", "/FI", "IMAGENAME eq steam.exe", "/NH")
		return err == nil && strings.Contains(string(out), "steam.exe")
	}
	out, err := c.run.Run(ctx, "pgrep", "-x", "steam")
	return err == nil && strings.TrimSpace(string(out)) != ""
}

// Restart gracefully shuts Steam down, waits for the process to exit and
// launches it again. Under gamescope the session relaunches Steam on its
// own, so the launch step is skipped there.
func (c *Controller) Restart(ctx context.Context) error {
	if !c.IsRunning(ctx) {
		return c.start()
	}

	if err := c.shutdown(ctx); err != nil {
		return fmt.Errorf("shut down steam: %w", err)
	}

	deadline := time.Now().Add(c.wait)
	for c.IsRunning(ctx) {
		if time.Now().After(deadline) {
			return fmt.Errorf("steam did not exit within %s", c.wait)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	if c.goos != "windows" && c.getenv("XDG_CURRENT_DESKTOP") == "gamescope" {
		return nil
	}
	return c.start()
}

func (c *Controller) shutdown(ctx context.Context) error {
	if c.goos == "windows" {
		_, err := c.run.Run(ctx, "taskkill", "/IM", "steam.exe")
		return err
	}
	_, err := c.run.Run(ctx, "steam", "-shutdown")
	return err
}

func (c *Controller) start() error {
	if c.goos == "windows" {
		// Steam typically installs to Program Files (x86).
		for _, path := range []string{
			`C:\Program Files (x86)\Steam\steam.exe`,
			`C:\Program Files\Steam\steam.exe`,
		} {
			if err := c.run.Start(path); err == nil {
				return nil
			}
		}
		return c.run.Start("cmd", "/C", "start", "steam://")
	}
	return c.run.Start("steam")
}
