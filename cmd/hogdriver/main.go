// Command hogdriver is a CLI for the PostHog driver: inspect entity schemas,
// run HogQL queries, capture events, render script templates, ask the
// analytics agent questions, and run a local mock PostHog server.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
