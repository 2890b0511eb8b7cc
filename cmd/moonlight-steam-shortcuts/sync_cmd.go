package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/artwork"
	"github.com/dorvan/moonlight-steam-shortcuts/internal/config"
	"github.com/dorvan/moonlight-steam-shortcuts/internal/log"
	"github.com/dorvan/moonlight-steam-shortcuts/internal/syncer"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/moonlight"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/steamgriddb"
)

func runSync(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("moonlight-steam-shortcuts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: moonlight-steam-shortcuts <host> [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}

	var (
		mf       moonlightFlags
		lf       libraryFlags
		tag      string
		noSync   bool
		dryRun   bool
		fetchArt bool
		restart  bool
		verbose  bool
	)
	addMoonlightFlags(fs, &mf)
	addLibraryFlags(fs, &lf)
	fs.StringVar(&tag, "tag", "", fmt.Sprintf("tag marking managed shortcuts (default %q)", syncer.DefaultTag))
	fs.BoolVar(&noSync, "no-sync", false, "don't remove existing shortcuts carrying the tag")
	fs.BoolVar(&dryRun, "dry-run", false, "don't touch the shortcuts file, just print the apps that were found")
	fs.BoolVar(&fetchArt, "artwork", false, "download grid images from SteamGridDB (needs an API key)")
	fs.BoolVar(&restart, "restart-steam", false, "restart Steam afterwards so it picks up the new shortcuts")
	fs.BoolVar(&verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&verbose, "v", false, "enable debug logging (shorthand)")

	host, err := parseHost(fs, args)
	if err != nil {
		return 2
	}

	configureLogging(verbose)
	logger := log.WithComponent("cli")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if host == "" {
		host = cfg.DefaultHost
	}
	if host == "" {
		fmt.Fprintln(os.Stderr, "Error: no host given and no default host configured")
		fs.Usage()
		return 2
	}
	if tag == "" {
		tag = cfg.Tag
	}

	launcher, err := mf.launcher(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info().Str("path", launcher.Exe).Msg("found Moonlight")

	sess, err := openSession(lf, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer sess.Close()

	userID, err := sess.resolveUser(firstOf(lf.user, cfg.User))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	plan, err := syncer.New(moonlight.NewClient(launcher), sess.lib).Sync(ctx, userID, syncer.Options{
		Host:   host,
		Tag:    tag,
		NoSync: noSync,
		DryRun: dryRun,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, entry := range plan.Entries {
		sc := entry.Shortcut
		fmt.Printf("%s => '%s %s' (icon: '%s')\n", sc.AppName, sc.Exe, sc.LaunchOptions, sc.Icon)
	}

	if dryRun {
		fmt.Printf("Dry run: found %d apps, shortcuts file untouched.\n", len(plan.Entries))
		return 0
	}

	fmt.Printf("Wrote %d shortcuts to %s.\n", len(plan.Shortcuts), sess.lib.Paths().ShortcutsPath(userID))

	// Steam writes shortcuts.vdf back on exit, so a running instance will
	// clobber the file unless it gets restarted.
	if !restart && sess.controller(ctx).IsRunning(ctx) {
		logger.Warn().Msg("Steam is running and may overwrite the shortcuts file on exit; pass --restart-steam or restart it yourself")
	}

	// Moonlight's cached box art becomes the shortcut icon and the portrait
	// grid image. Failing to place an image never fails the sync.
	for _, entry := range plan.Entries {
		if entry.BoxArt == "" {
			continue
		}
		if err := artwork.CopyBoxArt(sess.lib, userID, entry.Shortcut.AppID, entry.BoxArt); err != nil {
			logger.Warn().Err(err).Str("app", entry.Shortcut.AppName).Msg("box art not copied")
		}
	}

	if fetchArt {
		key := cfg.GridDBAPIKey()
		if key == "" {
			fmt.Fprintln(os.Stderr, "Error: --artwork needs a SteamGridDB API key (STEAMGRIDDB_API_KEY or the config file)")
			return 2
		}
		fetcher := artwork.NewFetcher(steamgriddb.NewClient(key), sess.lib)
		for _, entry := range plan.Entries {
			res := fetcher.Apply(ctx, userID, entry.Shortcut)
			if len(res.Applied) > 0 {
				fmt.Printf("Artwork for %s: %s\n", res.AppName, strings.Join(res.Applied, ", "))
			} else {
				fmt.Printf("Artwork for %s: none found\n", res.AppName)
			}
		}
	}

	if restart {
		logger.Info().Msg("restarting Steam")
		if err := sess.controller(ctx).Restart(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: restart Steam: %v\n", err)
			return 1
		}
	}

	return 0
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
