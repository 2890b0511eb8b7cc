package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dorvan/moonlight-steam-shortcuts/internal/config"
	"github.com/dorvan/moonlight-steam-shortcuts/internal/device"
	"github.com/dorvan/moonlight-steam-shortcuts/internal/log"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/moonlight"
	"github.com/dorvan/moonlight-steam-shortcuts/pkg/steam"
)

func configureLogging(verbose bool) {
	level := ""
	if verbose {
		level = "debug"
	}
	log.Configure(log.Config{Level: level})
}

// moonlightFlags selects how the Moonlight binary is invoked.
type moonlightFlags struct {
	path    string
	flatpak bool
}

func addMoonlightFlags(fs *flag.FlagSet, mf *moonlightFlags) {
	fs.StringVar(&mf.path, "moonlight", "", "path to the Moonlight executable")
	fs.StringVar(&mf.path, "m", "", "path to the Moonlight executable (shorthand)")
	fs.BoolVar(&mf.flatpak, "flatpak", false, "Moonlight is installed through Flatpak")
	fs.BoolVar(&mf.flatpak, "f", false, "Moonlight is installed through Flatpak (shorthand)")
}

// launcher resolves the Moonlight invocation, flags first, config second.
func (mf moonlightFlags) launcher(cfg *config.Config) (*moonlight.Launcher, error) {
	path := mf.path
	if path == "" {
		path = cfg.Moonlight
	}
	if mf.flatpak || (path == "" && cfg.Flatpak) {
		return moonlight.NewFlatpakLauncher()
	}
	return moonlight.NewLauncher(path)
}

// libraryFlags locate the Steam installation to operate on, locally or on a
// remote device.
type libraryFlags struct {
	userdata string
	user     string
	remote   string
	identity string
	local    bool
	timeout  time.Duration
}

func addLibraryFlags(fs *flag.FlagSet, lf *libraryFlags) {
	fs.StringVar(&lf.userdata, "steam-userdata", "", "path to Steam's userdata directory, or to one user directory inside it")
	fs.StringVar(&lf.userdata, "s", "", "path to Steam's userdata directory (shorthand)")
	fs.StringVar(&lf.user, "user", "", "Steam user ID to operate on")
	fs.StringVar(&lf.remote, "remote", "", "operate on a remote device over SSH, as user@host[:port]")
	fs.StringVar(&lf.identity, "identity", "", "SSH private key for --remote")
	fs.StringVar(&lf.identity, "i", "", "SSH private key for --remote (shorthand)")
	fs.BoolVar(&lf.local, "local", false, "ignore a configured remote device and operate locally")
	fs.DurationVar(&lf.timeout, "timeout", 10*time.Second, "SSH connection timeout for --remote")
}

// session is an opened Steam library plus the remote connection backing it,
// if any.
type session struct {
	lib     *steam.Library
	remote  *device.Client
	dirUser string // user implied by --steam-userdata naming one user directory
}

func (s *session) Close() {
	if s.remote != nil {
		s.remote.Close()
	}
}

// resolveUser picks the Steam user to operate on. An explicit ID wins, then a
// user directory named on the command line, then whatever the installation
// itself makes unambiguous.
func (s *session) resolveUser(explicit string) (string, error) {
	if explicit == "" && s.dirUser != "" {
		return s.dirUser, nil
	}
	user, err := s.lib.ResolveUser(explicit)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// controller returns a Steam controller operating wherever the library lives.
func (s *session) controller(ctx context.Context) *steam.Controller {
	if s.remote == nil {
		return steam.NewController()
	}
	remote := s.remote
	return steam.NewRemoteController(remote, func(key string) string {
		return remote.Getenv(ctx, key)
	})
}

// openSession connects to the remote device if one is requested and locates
// the Steam installation.
func openSession(lf libraryFlags, cfg *config.Config) (*session, error) {
	s := &session{}

	userdata := lf.userdata
	if userdata == "" {
		userdata = cfg.SteamUserdata
	}

	remote, err := remoteClient(lf, cfg)
	if err != nil {
		return nil, err
	}

	var fsys steam.FS = steam.OSFS{}
	if remote != nil {
		if err := remote.Connect(); err != nil {
			return nil, fmt.Errorf("connect to %s: %w", remote.Address(), err)
		}
		s.remote = remote
		fsys = remote
	}

	paths, dirUser, err := resolvePaths(remote, userdata)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.lib = steam.NewLibrary(fsys, paths)
	s.dirUser = dirUser
	return s, nil
}

// remoteClient builds the SSH client for --remote, falling back to the
// configured remote device when the flag is absent.
func remoteClient(lf libraryFlags, cfg *config.Config) (*device.Client, error) {
	if lf.local {
		return nil, nil
	}

	identity := lf.identity
	if identity == "" && cfg.Remote != nil {
		identity = cfg.Remote.KeyFile
	}

	if lf.remote != "" {
		target, err := device.ParseTarget(lf.remote)
		if err != nil {
			return nil, err
		}
		return device.NewClient(target.Host, target.Port, target.User, identity, lf.timeout), nil
	}

	if cfg.Remote != nil && cfg.Remote.Host != "" {
		return device.NewClient(cfg.Remote.Host, cfg.Remote.Port, cfg.Remote.User, identity, lf.timeout), nil
	}

	return nil, nil
}

// resolvePaths turns the --steam-userdata flag into a path layout. A path
// ending in "userdata" is the userdata directory itself; any other path
// names one user's directory. Without the flag the installation is detected,
// on the remote device when one is connected.
func resolvePaths(remote *device.Client, userdata string) (*steam.Paths, string, error) {
	if userdata != "" {
		clean := filepath.Clean(userdata)
		if filepath.Base(clean) == "userdata" {
			return steam.NewPathsWithUserdata(clean), "", nil
		}
		return steam.NewPathsWithUserdata(filepath.Dir(clean)), filepath.Base(clean), nil
	}

	if remote == nil {
		paths, err := steam.NewPaths()
		return paths, "", err
	}

	home, err := remote.Home()
	if err != nil {
		return nil, "", fmt.Errorf("resolve remote home directory: %w", err)
	}
	base, err := steam.DetectBase(remote, home)
	if err != nil {
		return nil, "", err
	}
	return steam.NewPathsWithBase(base), "", nil
}

// parseHost parses fs around the positional host argument, which may sit
// before or after the flags.
func parseHost(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	host := fs.Arg(0)
	if fs.NArg() > 1 {
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return "", err
		}
	}
	return host, nil
}
