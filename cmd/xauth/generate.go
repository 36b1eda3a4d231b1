package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var familyFlag string
	var protocol string
	var length int
	var lf lockFlags

	cmd := &cobra.Command{
		Use:   "generate <display>",
		Short: "Mint a fresh random cookie for a display",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			q, err := parseDisplay(args[0], familyFlag)
			if err != nil {
				return err
			}
			cookie, err := xauth.GenerateCookie(length)
			if err != nil {
				return err
			}
			rec := &xauth.Record{
				Family:  q.family,
				Address: q.address,
				Number:  q.number,
				Name:    []byte(protocol),
				Data:    cookie,
			}

			return withLock(path, lf.policy(), func() error {
				s, err := xauth.LoadOrEmpty(path)
				if err != nil {
					return err
				}
				defer s.Dispose()
				fp := rec.Fingerprint()
				s.Add(rec)
				if err := s.Save(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", args[0], protocol, fp)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&familyFlag, "family", "", "address family for the display argument")
	cmd.Flags().StringVar(&protocol, "protocol", xauth.MITMagicCookie1, "authentication protocol name")
	cmd.Flags().IntVar(&length, "length", xauth.MITMagicCookieLen, "cookie length in bytes")
	lf.register(cmd.Flags())
	return cmd
}
