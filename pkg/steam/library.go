// Package steam reads and writes the pieces of a Steam installation that
// non-Steam shortcuts live in: the userdata account directories,
// shortcuts.vdf and the grid artwork folder.
package steam

import (
	"fmt"
	"os"
	"strings"
)

// Library is one Steam installation seen through an FS. With OSFS it edits
// the local install, with an SFTP-backed FS a remote one.
type Library struct {
	fsys  FS
	paths *Paths
}

// NewLibrary creates a Library over fsys rooted at paths.
func NewLibrary(fsys FS, paths *Paths) *Library {
	return &Library{fsys: fsys, paths: paths}
}

// Paths returns the path layout this library operates on.
func (l *Library) Paths() *Paths {
	return l.paths
}

// HasShortcuts returns true if the user has a shortcuts.vdf file.
func (l *Library) HasShortcuts(userID string) bool {
	_, err := l.fsys.Stat(l.paths.ShortcutsPath(userID))
	return err == nil
}

// LoadShortcuts reads a user's shortcuts. A missing file yields an empty
// list, matching an account that never had a non-Steam game added.
func (l *Library) LoadShortcuts(userID string) ([]Shortcut, error) {
	path := l.paths.ShortcutsPath(userID)
	data, err := l.fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	shortcuts, err := ParseShortcuts(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return shortcuts, nil
}

// SaveShortcuts writes a user's shortcuts atomically, creating the config
// directory if needed.
func (l *Library) SaveShortcuts(userID string, shortcuts []Shortcut) error {
	data, err := MarshalShortcuts(shortcuts)
	if err != nil {
		return err
	}

	if err := l.fsys.MkdirAll(l.paths.ConfigDir(userID), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	path := l.paths.ShortcutsPath(userID)
	if err := l.fsys.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EnsureGridDir creates the grid artwork directory if it doesn't exist.
func (l *Library) EnsureGridDir(userID string) error {
	return l.fsys.MkdirAll(l.paths.GridDir(userID), 0755)
}

// SaveArtwork stores one artwork image for an app ID. Copies of the same
// slot saved under a different extension are removed first, since Steam
// treats every matching file as a candidate for the slot.
func (l *Library) SaveArtwork(userID string, appID uint32, artType ArtworkType, data []byte, ext string) error {
	if err := l.EnsureGridDir(userID); err != nil {
		return fmt.Errorf("create grid dir: %w", err)
	}

	ext = strings.TrimPrefix(ext, ".")
	path := l.paths.ArtworkPath(userID, appID, artType, ext)
	l.removeStaleArtwork(userID, appID, artType, path)
	if err := l.fsys.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// removeStaleArtwork deletes images holding the same grid slot under another
// extension; Steam discovers slot images by scanning the grid directory, so
// a second extension competes with the first. Icons are exempt: shortcuts.vdf
// references them by exact path, and an older copy may still be referenced.
func (l *Library) removeStaleArtwork(userID string, appID uint32, artType ArtworkType, keep string) {
	if artType == ArtworkIcon {
		return
	}
	for _, ext := range []string{"png", "jpg", "jpeg", "webp", "ico"} {
		path := l.paths.ArtworkPath(userID, appID, artType, ext)
		if path == keep {
			continue
		}
		_ = l.fsys.Remove(path)
	}
}
