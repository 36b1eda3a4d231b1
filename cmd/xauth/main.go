// Command xauth lists, adds, removes, and transfers X authority file
// records, with cooperative locking around every mutation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
	"github.com/kardianos/xauth/lockfile"
)

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(int(lockfile.StatusOf(err)))
	}
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	file    string
	verbose bool
}

// authorityPath resolves the authority file: the --file flag wins, then the
// XAUTHORITY/home default.
func (o *rootOptions) authorityPath() (string, error) {
	if o.file != "" {
		return o.file, nil
	}
	return xauth.DefaultPath()
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "xauth",
		Short:         "xauth edits and displays X authority file records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.file, "file", "f", "", "authority file (default $XAUTHORITY or ~/"+xauth.DefaultFileName+")")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newPathCommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newGenerateCommand(opts),
		newRemoveCommand(opts),
		newExtractCommand(opts),
		newMergeCommand(opts),
		newLockCommand(opts),
		newUnlockCommand(opts),
		newLockInfoCommand(opts),
	)
	return cmd
}

func newPathCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved authority file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
