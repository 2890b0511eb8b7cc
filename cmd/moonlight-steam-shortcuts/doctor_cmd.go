package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/config"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/moonlight"
)

// runDoctor checks every piece a sync needs and reports each one, so a
// broken setup is diagnosed in one pass instead of one error at a time.
func runDoctor(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("moonlight-steam-shortcuts doctor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		mf      moonlightFlags
		lf      libraryFlags
		verbose bool
	)
	addMoonlightFlags(fs, &mf)
	addLibraryFlags(fs, &lf)
	fs.BoolVar(&verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&verbose, "v", false, "enable debug logging (shorthand)")

	host, err := parseHost(fs, args)
	if err != nil {
		return 2
	}

	configureLogging(verbose)

	failed := false
	report := func(ok bool, name, detail string) {
		mark := "✓"
		if !ok {
			mark = "✗"
			failed = true
		}
		fmt.Printf("%s %s: %s\n", mark, name, detail)
	}

	cfg, err := config.Load()
	if err != nil {
		report(false, "config", err.Error())
		cfg = &config.Config{}
	} else {
		detail := "no config file, using defaults"
		if path, perr := config.Path(); perr == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				detail = path
			}
		}
		report(true, "config", detail)
	}

	launcher, err := mf.launcher(cfg)
	if err != nil {
		report(false, "moonlight", err.Error())
	} else {
		report(true, "moonlight", launcher.Exe)
	}

	// Only listable with a host to ask and a launcher to ask with.
	if host == "" {
		host = cfg.DefaultHost
	}
	if host != "" && launcher != nil {
		if apps, err := moonlight.NewClient(launcher).ListApps(ctx, host); err != nil {
			report(false, "host", err.Error())
		} else {
			report(true, "host", fmt.Sprintf("%s lists %d apps", host, len(apps)))
		}
	}

	if key := cfg.GridDBAPIKey(); key != "" {
		report(true, "steamgriddb", "API key configured")
	} else {
		report(true, "steamgriddb", "no API key, --artwork unavailable")
	}

	sess, err := openSession(lf, cfg)
	if err != nil {
		report(false, "steam", err.Error())
		return 1
	}
	defer sess.Close()

	if sess.remote != nil {
		report(true, "remote", sess.remote.Address())
	}
	report(true, "steam", sess.lib.Paths().UserDataDir())

	users, err := sess.lib.Users()
	if err != nil {
		report(false, "users", err.Error())
		return 1
	}
	report(true, "users", fmt.Sprintf("%d found", len(users)))

	userID, err := sess.resolveUser(firstOf(lf.user, cfg.User))
	if err != nil {
		report(false, "user", err.Error())
		return 1
	}

	if !sess.lib.HasShortcuts(userID) {
		report(true, "shortcuts", fmt.Sprintf("user %s has no shortcuts.vdf yet, sync will create it", userID))
	} else if shortcuts, err := sess.lib.LoadShortcuts(userID); err != nil {
		report(false, "shortcuts", err.Error())
	} else {
		report(true, "shortcuts", fmt.Sprintf("user %s has %d entries", userID, len(shortcuts)))
	}

	if failed {
		return 1
	}
	return 0
}
