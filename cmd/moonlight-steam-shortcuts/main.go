// moonlight-steam-shortcuts syncs the apps a Moonlight host offers into
// Steam's non-Steam shortcuts, so every streamed game shows up in the Steam
// library with working launch options and artwork.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

// run dispatches subcommands by the first argument. Anything else is the
// default sync invocation with the host as its positional argument.
func run(ctx context.Context, args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "list":
			return runList(ctx, args[1:])
		case "users":
			return runUsers(ctx, args[1:])
		case "discover":
			return runDiscover(ctx, args[1:])
		case "doctor":
			return runDoctor(ctx, args[1:])
		case "config":
			return runConfig(args[1:])
		case "version", "--version", "-V":
			return runVersion()
		case "help", "-h", "--help":
			printUsage()
			return 0
		}
	}
	return runSync(ctx, args)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts <host> [flags]   sync Moonlight apps into Steam shortcuts")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts list <host>      print the apps a host offers")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts users            print Steam users found in userdata")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts discover         find streaming hosts via mDNS")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts doctor [host]    check the local setup")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts config           inspect or create the config file")
	fmt.Fprintln(os.Stderr, "  moonlight-steam-shortcuts version          print version information")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Run any command with -h for its flags.")
}
