package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kardianos/xauth/lockfile"
)

func newLockCommand(opts *rootOptions) *cobra.Command {
	var lf lockFlags

	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Claim the authority file lock and leave it held",
		Long: `Claim the lock artifact and exit without releasing, so a shell
script can bracket its own file access. Pair with "unlock". The exit code
is the lock status: 0 acquired, 1 error, 2 timeout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			h, err := lockfile.Acquire(path, lf.policy())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "locked %s (token %s)\n",
				lockfile.ArtifactPath(path), h.Owner().Token)
			return nil
		},
	}

	lf.register(cmd.Flags())
	return cmd
}

func newUnlockCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Break the authority file lock",
		Long: `Remove the lock artifact unconditionally. This is the recovery path
for a lock left behind by "lock" or a dead process; breaking a live
holder's lock destroys its exclusivity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			if err := lockfile.Break(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", lockfile.ArtifactPath(path))
			return nil
		},
	}
}

func newLockInfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lockinfo",
		Short: "Show who holds the authority file lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			info, err := lockfile.Inspect(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "unlocked")
				return nil
			}
			if err != nil {
				return err
			}
			if info.Owner == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "locked, holder unknown, held since %s\n",
					humanize.Time(time.Now().Add(-info.Age)))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "locked by pid %d on %s, held since %s (token %s)\n",
				info.Owner.PID, info.Owner.Hostname,
				humanize.Time(info.Owner.AcquiredAt()), info.Owner.Token)
			return nil
		},
	}
}
