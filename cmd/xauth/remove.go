package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
)

func newRemoveCommand(opts *rootOptions) *cobra.Command {
	var familyFlag string
	var lf lockFlags

	cmd := &cobra.Command{
		Use:   "remove <display> <protocol>",
		Short: "Remove records for a display and protocol",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			q, err := parseDisplay(args[0], familyFlag)
			if err != nil {
				return err
			}

			return withLock(path, lf.policy(), func() error {
				s, err := xauth.Load(path)
				if err != nil {
					return err
				}
				defer s.Dispose()
				n := s.Remove(q.family, q.address, q.number, []byte(args[1]))
				if n == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no matching records")
					return nil
				}
				if err := s.Save(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d record(s)\n", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&familyFlag, "family", "", "address family for the display argument")
	lf.register(cmd.Flags())
	return cmd
}
