package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthRequired = fmt.Errorf("authentication required")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Catalog and generation errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSourceFetchFailed  = fmt.Errorf("source fetch failed")
	ErrGenerationFailed   = fmt.Errorf("playlist generation failed")
	ErrSuperseded         = fmt.Errorf("request superseded by a newer one")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Input validation errors
	ErrInvalidPreferences = fmt.Errorf("invalid preferences")
	ErrMissingArgument    = fmt.Errorf("missing required argument")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
)
