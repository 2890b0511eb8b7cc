//go:build !windows

package steam

import "os"

// getBaseDir returns the Steam base directory on Linux/Unix systems.
func getBaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return DetectBase(OSFS{}, home)
}
