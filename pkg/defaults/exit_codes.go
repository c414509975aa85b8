package defaults

// Exit codes for the CLI.
const (
	ExitSuccess       = 0 // Input drained; individual candidate failures do not count
	ExitUserError     = 2 // Invalid arguments or configuration
	ExitStartupError  = 3 // No worker could start, or a listener failed to bind
	ExitInternalError = 4 // Input could not be read
)
