// Package main is the entry point for the autorel CLI.
package main

import (
	"fmt"
	"os"

	"github.com/davrd/autorel/cmd/autorel/commands"
	"github.com/davrd/autorel/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	if errors.Is(err, errors.ErrAborted) {
		fmt.Fprintln(os.Stderr, "Aborted")
		os.Exit(errors.ExitUser)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(errors.ExitSystem)
}
