package main

// Exit codes.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (bad config file, unknown backend)
	ExitDataError   = 3 // Data error (unreadable or malformed input file)
	ExitStoreError  = 4 // Store-level failure (connectivity, missing table, rejected writes)
)
