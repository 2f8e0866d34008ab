// Package cmd implements the Katana CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (run, version).
package cmd

import (
	"fmt"
	"io"
	"os"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string, out io.Writer) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "katana",
	Short: "Katana - declarative view trees, reconciled",
	Long: `Katana reconciles trees of immutable descriptions into live nodes and
patches a container hierarchy with the minimal set of view operations.

Use "katana <command> --help" for more information about a command.`,
	Usage: "katana <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return execute(os.Args[1:], os.Stdout)
}

func execute(args []string, out io.Writer) error {
	if len(args) == 0 {
		printHelp(out, rootCmd)
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp(out, rootCmd)
		return nil
	case "-v", "--version":
		return runVersion(nil, out)
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(out, rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand
	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(out, cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs, out)
}

func printHelp(out io.Writer, cmd *Command) {
	fmt.Fprintln(out, cmd.Long)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s\n", cmd.Usage)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(out, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  -h, --help           Show help for a command")
	fmt.Fprintln(out, "  -v, --version        Show version information")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  katana run groceries.yaml                   Run a scenario")
	fmt.Fprintln(out, "  katana run --config katana.yaml todo.yaml   Run with explicit settings")
}

func printCommandHelp(out io.Writer, cmd *Command) {
	fmt.Fprintln(out, cmd.Long)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s\n", cmd.Usage)
}
