package steam

import (
	"fmt"
	"path/filepath"
)

// Paths computes locations inside a Steam installation. It never touches the
// filesystem itself; Library combines it with an FS for that.
type Paths struct {
	baseDir     string
	userdataDir string
}

// NewPaths creates a Paths instance with an auto-detected Steam directory.
func NewPaths() (*Paths, error) {
	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}
	return &Paths{baseDir: baseDir}, nil
}

// NewPathsWithBase creates a Paths instance with a custom base directory.
func NewPathsWithBase(baseDir string) *Paths {
	return &Paths{baseDir: baseDir}
}

// NewPathsWithUserdata points directly at a userdata directory, bypassing
// base-directory detection entirely.
func NewPathsWithUserdata(userdataDir string) *Paths {
	return &Paths{userdataDir: userdataDir}
}

// BaseDir returns the Steam base directory. It is empty when Paths was built
// from a userdata directory alone.
func (p *Paths) BaseDir() string {
	return p.baseDir
}

// UserDataDir returns the userdata directory.
func (p *Paths) UserDataDir() string {
	if p.userdataDir != "" {
		return p.userdataDir
	}
	return filepath.Join(p.baseDir, "userdata")
}

// UserDir returns the directory for a specific user.
func (p *Paths) UserDir(userID string) string {
	return filepath.Join(p.UserDataDir(), userID)
}

// ConfigDir returns the config directory for a user.
func (p *Paths) ConfigDir(userID string) string {
	return filepath.Join(p.UserDir(userID), "config")
}

// ShortcutsPath returns the path to shortcuts.vdf for a user.
func (p *Paths) ShortcutsPath(userID string) string {
	return filepath.Join(p.ConfigDir(userID), "shortcuts.vdf")
}

// LocalConfigPath returns the path to localconfig.vdf for a user. That file
// carries the account's persona name.
func (p *Paths) LocalConfigPath(userID string) string {
	return filepath.Join(p.ConfigDir(userID), "localconfig.vdf")
}

// GridDir returns the grid artwork directory for a user.
func (p *Paths) GridDir(userID string) string {
	return filepath.Join(p.ConfigDir(userID), "grid")
}

// ArtworkPath returns the path for a specific artwork type.
func (p *Paths) ArtworkPath(userID string, appID uint32, artType ArtworkType, ext string) string {
	return filepath.Join(p.GridDir(userID), artworkFilename(appID, artType, ext))
}

// LinuxBaseCandidates returns the Steam base directories to probe under a
// Linux home directory, in preference order. The last entry is the Flatpak
// install location.
func LinuxBaseCandidates(home string) []string {
	return []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".steam", "steam"),
	}
}

// DetectBase probes fsys for a Steam base directory under home. It is how
// remote Linux hosts are detected; the local equivalent is NewPaths.
func DetectBase(fsys FS, home string) (string, error) {
	for _, dir := range LinuxBaseCandidates(home) {
		if _, err := fsys.Stat(dir); err == nil {
			return dir, nil
		}
	}
	return "", ErrSteamNotFound
}

// ArtworkType represents the type of Steam artwork.
type ArtworkType int

const (
	ArtworkGrid     ArtworkType = iota // 460x215 horizontal banner
	ArtworkHero                        // 1920x620 header
	ArtworkLogo                        // transparent logo
	ArtworkIcon                        // square icon
	ArtworkPortrait                    // 600x900 vertical grid
)

// artworkFilename generates the filename for artwork based on type.
func artworkFilename(appID uint32, artType ArtworkType, ext string) string {
	switch artType {
	case ArtworkHero:
		return formatFilename(appID, "_hero", ext)
	case ArtworkLogo:
		return formatFilename(appID, "_logo", ext)
	case ArtworkIcon:
		return formatFilename(appID, "_icon", ext)
	case ArtworkPortrait:
		return formatFilename(appID, "p", ext)
	default:
		return formatFilename(appID, "", ext)
	}
}

func formatFilename(appID uint32, suffix, ext string) string {
	if ext == "" {
		ext = "png"
	}
	return fmt.Sprintf("%d%s.%s", appID, suffix, ext)
}
