package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess        = 0 // Every combination computed and written
	ExitPartialFailure = 1 // Run completed, but some combinations failed
	ExitError          = 2 // Configuration or runtime error
)

// PartialFailureError indicates that the pipeline ran to completion,
// but one or more combinations could not be computed or written.
type PartialFailureError struct {
	Message string
}

func (e *PartialFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var partialErr *PartialFailureError
		if errors.As(err, &partialErr) {
			os.Exit(ExitPartialFailure)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
