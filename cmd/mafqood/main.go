// Command mafqood is the command-line client for the Mafqood
// lost-and-found service: report lost or found items with a photo,
// review suggested matches, and manage the local session.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// An interrupt mid-request is a deliberate exit, not a failure
		// worth printing.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "mafqood: %v\n", err)
		}
		os.Exit(1)
	}
}
