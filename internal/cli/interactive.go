package cli

import "os"

// IsNonInteractive reports whether the player must not open and prompts
// should be skipped.
func IsNonInteractive() bool {
	if nonInteractive {
		return true
	}
	if _, ok := os.LookupEnv("WRAPPED_NON_INTERACTIVE"); ok {
		return true
	}
	return !hasTTY()
}

// IsInteractive reports whether the session can open the player.
func IsInteractive() bool {
	return !IsNonInteractive()
}
