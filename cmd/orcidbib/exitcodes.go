package main

// Exit codes
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (unreadable file, invalid values)
	ExitRegistryError = 3 // ORCID query failed (only with --strict)
)
