package steam

import "errors"

// Common errors for Steam operations.
var (
	ErrSteamNotFound = errors.New("steam installation not found")
	ErrUserNotFound  = errors.New("steam user not found")
	ErrAmbiguousUser = errors.New("multiple steam users found")
)
