// Package syncer turns Moonlight's app list into tagged Steam shortcuts.
package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/log"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/moonlight"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/steam"
)

// DefaultTag marks shortcuts this tool manages. Entries without it are never
// touched.
const DefaultTag = "moonlight"

// Lister is the part of the Moonlight client the syncer needs.
type Lister interface {
	ListApps(ctx context.Context, host string) ([]moonlight.App, error)
	Launcher() *moonlight.Launcher
}

// Options controls a sync run.
type Options struct {
	Host   string // streaming host passed to moonlight
	Tag    string // tag marking managed shortcuts, defaults to DefaultTag
	NoSync bool   // keep previously tagged shortcuts instead of replacing them
	DryRun bool   // plan only, never write
}

// Entry pairs a planned shortcut with the local box art Moonlight cached for
// it, if any.
type Entry struct {
	Shortcut steam.Shortcut
	BoxArt   string
}

// Plan describes the outcome of a sync. On a dry run it is all you get; on a
// real run it reports what was written.
type Plan struct {
	UserID    string
	Removed   int              // previously tagged shortcuts dropped
	Kept      int              // shortcuts left untouched
	Entries   []Entry          // freshly built shortcuts
	Shortcuts []steam.Shortcut // final shortcut list, kept entries first
}

// Syncer wires a Moonlight client to one Steam user's shortcut library.
type Syncer struct {
	moonlight Lister
	lib       *steam.Library
	log       zerolog.Logger
}

// New creates a syncer reading apps from ml and writing shortcuts into lib.
func New(ml Lister, lib *steam.Library) *Syncer {
	return &Syncer{
		moonlight: ml,
		lib:       lib,
		log:       log.WithComponent("syncer"),
	}
}

// Sync lists apps from the host, rebuilds the tagged shortcuts and saves the
// result. The shortcuts file is only touched after the app list arrived, so
// a broken Moonlight setup never costs existing entries.
func (s *Syncer) Sync(ctx context.Context, userID string, opts Options) (*Plan, error) {
	if opts.Tag == "" {
		opts.Tag = DefaultTag
	}

	s.log.Info().Str("host", opts.Host).Msg("retrieving apps from Moonlight")
	apps, err := s.moonlight.ListApps(ctx, opts.Host)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("apps", len(apps)).Msg("retrieved app list")

	if !s.lib.HasShortcuts(userID) {
		s.log.Info().Str("path", s.lib.Paths().ShortcutsPath(userID)).Msg("no shortcuts file yet, starting fresh")
	}
	existing, err := s.lib.LoadShortcuts(userID)
	if err != nil {
		return nil, err
	}

	plan := s.build(userID, existing, apps, opts)

	s.log.Info().
		Int("new", len(plan.Entries)).
		Int("removed", plan.Removed).
		Int("kept", plan.Kept).
		Int("total", len(plan.Shortcuts)).
		Bool("dry_run", opts.DryRun).
		Msg("sync plan ready")

	if opts.DryRun {
		return plan, nil
	}

	if err := s.lib.SaveShortcuts(userID, plan.Shortcuts); err != nil {
		return nil, fmt.Errorf("save shortcuts: %w", err)
	}
	return plan, nil
}

// build assembles the final shortcut list. Unless NoSync is set, shortcuts
// carrying the tag are replaced wholesale; everything else stays in place
// and in order.
func (s *Syncer) build(userID string, existing []steam.Shortcut, apps []moonlight.App, opts Options) *Plan {
	plan := &Plan{UserID: userID}

	kept := existing
	if !opts.NoSync {
		kept = make([]steam.Shortcut, 0, len(existing))
		for _, sc := range existing {
			if sc.HasTag(opts.Tag) {
				plan.Removed++
				continue
			}
			kept = append(kept, sc)
		}
	}
	plan.Kept = len(kept)

	launcher := s.moonlight.Launcher()
	for _, app := range apps {
		sc := steam.NewShortcut(app.Title, launcher.Exe)
		sc.StartDir = launcher.StartDir()
		sc.LaunchOptions = launcher.LaunchOptions(opts.Host, app.Title)
		if app.BoxArt != "" {
			// The icon points at the grid copy artwork.CopyBoxArt installs,
			// not at Moonlight's cache, which gets evicted.
			ext := strings.TrimPrefix(filepath.Ext(app.BoxArt), ".")
			sc.Icon = s.lib.Paths().ArtworkPath(userID, sc.AppID, steam.ArtworkIcon, ext)
		}
		sc.AddTag(opts.Tag)

		s.log.Debug().
			Str("app", app.Title).
			Str("exe", sc.Exe).
			Str("options", sc.LaunchOptions).
			Str("icon", sc.Icon).
			Msg("built shortcut")

		plan.Entries = append(plan.Entries, Entry{Shortcut: *sc, BoxArt: app.BoxArt})
	}

	plan.Shortcuts = make([]steam.Shortcut, 0, len(kept)+len(plan.Entries))
	plan.Shortcuts = append(plan.Shortcuts, kept...)
	for _, entry := range plan.Entries {
		plan.Shortcuts = append(plan.Shortcuts, entry.Shortcut)
	}
	return plan
}
