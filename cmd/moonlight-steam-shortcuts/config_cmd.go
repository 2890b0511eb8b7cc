package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage()
		return 0
	}

	switch args[0] {
	case "path":
		return runConfigPath()
	case "show":
		return runConfigShow()
	case "init":
		return runConfigInit()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts config path   print the config file location")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts config show   print the effective configuration")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts config init   write a starter config file")
}

func runConfigPath() int {
	path, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(path)
	return 0
}

func runConfigShow() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cfg.SteamGridDBAPIKey != "" {
		cfg.SteamGridDBAPIKey = "***"
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runConfigInit() int {
	path, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", path)
		return 1
	}

	// Placeholders for the keys a first-time setup usually wants.
	cfg := &config.Config{
		DefaultHost: "gamehost",
		Tag:         "moonlight",
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Printf("Wrote %s.\n", path)
	return 0
}
