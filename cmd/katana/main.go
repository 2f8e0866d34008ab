// Command katana runs scripted scenarios against the reconciler.
package main

import (
	"fmt"
	"os"

	"github.com/augmify/katana/cmd/katana/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
