package steam

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const unknownPersona = "UNKNOWN"

// User represents one account directory under userdata.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HasShortcuts bool   `json:"hasShortcuts"`
}

func (u User) String() string {
	return fmt.Sprintf("%s (%s)", u.ID, u.Name)
}

// Users returns the Steam accounts found under userdata.
func (l *Library) Users() ([]User, error) {
	entries, err := l.fsys.ReadDir(l.paths.UserDataDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSteamNotFound
		}
		return nil, err
	}

	var users []User
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		// Account directories are numeric.
		name := entry.Name()
		if _, err := strconv.ParseUint(name, 10, 64); err != nil {
			continue
		}

		// "0" is a temporary Steam directory, not a real user.
		if name == "0" {
			continue
		}

		users = append(users, User{
			ID:           name,
			Name:         l.personaName(name),
			HasShortcuts: l.HasShortcuts(name),
		})
	}

	return users, nil
}

// personaName extracts the account name from localconfig.vdf. The file is
// text VDF; instead of parsing it fully we look for the single line setting
// "PersonaName" and take its quoted value. Zero or several matching lines
// mean the name cannot be trusted, so it falls back to a placeholder.
func (l *Library) personaName(userID string) string {
	data, err := l.fsys.ReadFile(l.paths.LocalConfigPath(userID))
	if err != nil {
		return unknownPersona
	}

	var match string
	count := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.Contains(line, `"PersonaName"`) {
			match = line
			count++
		}
	}
	if count != 1 {
		return unknownPersona
	}

	parts := strings.Split(match, `"`)
	if len(parts) < 4 {
		return unknownPersona
	}
	return parts[3]
}

// ResolveUser picks the account to operate on. An explicit ID wins. Without
// one, a lone account is unambiguous, as is a lone account that already has
// a shortcuts.vdf. Anything else errors with the candidate list.
func (l *Library) ResolveUser(explicit string) (*User, error) {
	users, err := l.Users()
	if err != nil {
		return nil, err
	}

	if explicit != "" {
		for i := range users {
			if users[i].ID == explicit {
				return &users[i], nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, explicit)
	}

	switch len(users) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return &users[0], nil
	}

	var withShortcuts []*User
	for i := range users {
		if users[i].HasShortcuts {
			withShortcuts = append(withShortcuts, &users[i])
		}
	}
	if len(withShortcuts) == 1 {
		return withShortcuts[0], nil
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.String()
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousUser, strings.Join(ids, ", "))
}
