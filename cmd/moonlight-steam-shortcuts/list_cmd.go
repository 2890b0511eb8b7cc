package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/config"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/moonlight"
)

func runList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("moonlight-steam-shortcuts list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: moonlight-steam-shortcuts list <host> [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}

	var (
		mf      moonlightFlags
		verbose bool
	)
	addMoonlightFlags(fs, &mf)
	fs.BoolVar(&verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&verbose, "v", false, "enable debug logging (shorthand)")

	host, err := parseHost(fs, args)
	if err != nil {
		return 2
	}

	configureLogging(verbose)

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

	launcher, err := mf.launcher(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	apps, err := moonlight.NewClient(launcher).ListApps(ctx, host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(apps) == 0 {
		fmt.Printf("No apps found on %s.\n", host)
		return 0
	}

	for _, app := range apps {
		if app.BoxArt != "" {
			fmt.Printf("%s\t%s\n", app.Title, app.BoxArt)
			continue
		}
		fmt.Println(app.Title)
	}
	return 0
}
