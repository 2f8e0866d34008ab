package cmd

import (
	"fmt"
	"io"
	"runtime"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Show the Katana CLI version, build time and Go runtime.",
		Usage: "katana version",
		Run:   runVersion,
	})
}

func runVersion(_ []string, out io.Writer) error {
	fmt.Fprintf(out, "Katana CLI version %s (built %s, %s)\n", Version, BuildTime, runtime.Version())
	return nil
}
