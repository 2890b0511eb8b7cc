package moonlight

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// appListFields is the column count of Moonlight's CSV app listing.
const appListFields = 7

// App is one streamable application offered by a host.
type App struct {
	Title  string
	BoxArt string // local path to the cached box art, empty when none exists
}

// Client queries streaming hosts through the Moonlight CLI.
type Client struct {
	launcher *Launcher

	// run is swapped out in tests.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewClient wraps launcher for host queries.
func NewClient(launcher *Launcher) *Client {
	return &Client{launcher: launcher, run: runCommand}
}

// Launcher returns the launcher the client was built from.
func (c *Client) Launcher() *Launcher {
	return c.launcher
}

// ListApps asks host for its streamable apps.
func (c *Client) ListApps(ctx context.Context, host string) ([]App, error) {
	name, args := c.launcher.Command("list", host, "--csv")
	out, err := c.run(ctx, name, args...)
	if err != nil {
		return nil, fmt.Errorf("list apps from %s: %w", host, err)
	}
	return parseAppList(out)
}

// runCommand captures stdout; on failure stderr ends up in the error.
func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, err
	}
	return out, nil
}

// parseAppList decodes the CSV listing. The first row is a header. Every
// data row has seven fields: the title first and a box art reference last,
// either a file:// URI to the cached image or a no_app_image placeholder.
func parseAppList(data []byte) ([]App, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = appListFields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse app list: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	apps := make([]App, 0, len(records)-1)
	for _, rec := range records[1:] {
		apps = append(apps, App{
			Title:  rec[0],
			BoxArt: boxArtPath(rec[6]),
		})
	}
	return apps, nil
}

// boxArtPath turns the box art field into a local path. Fields without the
// file:// scheme are taken verbatim.
func boxArtPath(field string) string {
	if strings.Contains(field, "no_app_image") {
		return ""
	}
	return strings.TrimPrefix(field, "file://")
}
