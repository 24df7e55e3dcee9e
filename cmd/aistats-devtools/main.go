// Command aistats-devtools inspects a devtools capture directory written by
// the AI Stats client.
//
// Usage:
//
//	aistats-devtools info   [--dir DIR]
//	aistats-devtools stats  [--dir DIR] [--json] [--pricing FILE]
//	aistats-devtools tail   [--dir DIR] [-n 10] [--json]
//	aistats-devtools export [--dir DIR] [-f csv|jsonl] [-o FILE]
//	aistats-devtools clear  [--dir DIR] --yes
//
// DIR defaults to AI_STATS_DEVTOOLS_DIR, then .ai-stats-devtools. A .env file
// in the working directory is loaded first.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var errUsage = errors.New("invalid usage")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	root := newRootCmd()
	cmd, err := root.ExecuteC()
	os.Exit(report(os.Stderr, cmd, err))
}

// report prints err, followed by the command usage for usage errors, and
// returns the exit status.
func report(stderr io.Writer, cmd *cobra.Command, err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "aistats-devtools: %v\n", err)
	if errors.Is(err, errUsage) {
		fmt.Fprint(stderr, cmd.UsageString())
		return 2
	}
	return 1
}

// newRootCmd builds the command tree. Output goes to cmd.OutOrStdout().
func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:           "aistats-devtools",
		Short:         "Inspect AI Stats devtools captures",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: no command given", errUsage)
			}
			return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
		},
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "capture directory (default $AI_STATS_DEVTOOLS_DIR or .ai-stats-devtools)")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s: %v", errUsage, cmd.Name(), err)
	})

	root.AddCommand(
		newInfoCmd(&dir),
		newStatsCmd(&dir),
		newTailCmd(&dir),
		newExportCmd(&dir),
		newClearCmd(&dir),
	)
	return root
}
