package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/discover"
)

func runDiscover(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("moonlight-steam-shortcuts discover", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		timeout time.Duration
		verbose bool
	)
	fs.DurationVar(&timeout, "timeout", 5*time.Second, "how long to listen for mDNS answers")
	fs.BoolVar(&verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&verbose, "v", false, "enable debug logging (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	configureLogging(verbose)

	fmt.Printf("Searching for streaming hosts (%s) ...\n", timeout)
	hosts, err := discover.Browse(ctx, timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if len(hosts) == 0 {
		fmt.Println("No streaming hosts found.")
		return 0
	}

	for _, h := range hosts {
		fmt.Println(hostLine(h))
	}
	return 0
}

// hostLine renders one discovered host: instance name, advertised address
// with the service port, and the resolved IPs.
func hostLine(h discover.Host) string {
	ips := make([]string, 0, len(h.IPs))
	for _, ip := range h.IPs {
		ips = append(ips, ip.String())
	}
	return fmt.Sprintf("%s\t%s:%d\t%s", h.Name, h.Addr, h.Port, strings.Join(ips, " "))
}
