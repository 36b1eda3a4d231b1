package main

import (
	"bytes"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var showSecrets bool
	var watch bool
	var familyFlag string

	cmd := &cobra.Command{
		Use:   "list [display]",
		Short: "List authority file records",
		Long: `List records from the authority file. With a display argument, only
records whose (family, address, number) triple matches are shown. Secrets
are printed as fingerprints unless --show-secrets is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}

			var filter *query
			if len(args) == 1 {
				q, err := parseDisplay(args[0], familyFlag)
				if err != nil {
					return err
				}
				filter = &q
			}

			list := func() error {
				s, err := xauth.Load(path)
				if err != nil {
					return err
				}
				defer s.Dispose()
				for _, rec := range s.Records() {
					if filter != nil && !matchesQuery(rec, *filter) {
						continue
					}
					fmt.Fprintln(cmd.OutOrStdout(), formatRecord(rec, showSecrets))
				}
				return nil
			}

			if err := list(); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = xauth.Watch(ctx, path, func() {
				if err := list(); err != nil {
					// A torn concurrent write reads as malformed; the next
					// change event retries.
					fmt.Fprintf(cmd.ErrOrStderr(), "reload: %v\n", err)
				}
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "print raw secret bytes as hex")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-list whenever the file changes")
	cmd.Flags().StringVar(&familyFlag, "family", "", "address family for the display argument")
	return cmd
}

func matchesQuery(rec *xauth.Record, q query) bool {
	return rec.Family == q.family &&
		bytes.Equal(rec.Address, q.address) &&
		bytes.Equal(rec.Number, q.number)
}
