// Command courier classifies documents, routes them to the email or
// structured-data handler, and inspects the shared ledger.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
