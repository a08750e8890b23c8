package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Application session errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// Spotify session errors
	ErrNotConnected   = fmt.Errorf("no spotify connection")
	ErrReauthRequired = fmt.Errorf("spotify reauthorization required")
	ErrStateMismatch  = fmt.Errorf("authorization state mismatch")

	// External service errors
	ErrExternalService = fmt.Errorf("spotify request failed")
	ErrNoCandidates    = fmt.Errorf("no recommendation candidates")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNotFound        = fmt.Errorf("not found")
)
