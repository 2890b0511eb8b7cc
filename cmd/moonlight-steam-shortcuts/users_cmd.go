package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/config"
)

func runUsers(_ context.Context, args []string) int {
	fs := flag.NewFlagSet("moonlight-steam-shortcuts users", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		lf      libraryFlags
		asJSON  bool
		verbose bool
	)
	addLibraryFlags(fs, &lf)
	fs.BoolVar(&asJSON, "json", false, "print users as JSON")
	fs.BoolVar(&verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&verbose, "v", false, "enable debug logging (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configureLogging(verbose)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	sess, err := openSession(lf, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer sess.Close()

	users, err := sess.lib.Users()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(users); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if len(users) == 0 {
		fmt.Println("No Steam users found.")
		return 0
	}

	for _, u := range users {
		line := fmt.Sprintf("%s\t%s", u.ID, u.Name)
		if u.HasShortcuts {
			line += "\t(has shortcuts)"
		}
		fmt.Println(line)
	}
	return 0
}
