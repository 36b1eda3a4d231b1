package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
)

func newAddCommand(opts *rootOptions) *cobra.Command {
	var familyFlag string
	var lf lockFlags

	cmd := &cobra.Command{
		Use:   "add <display> <protocol> <hexkey>",
		Short: "Add or replace a record",
		Long: `Add a record for a display. The key is given as hex, or "-" to read
hex from stdin. An existing record with the same identity is replaced in
place. The file is created if missing, and the mutation is bracketed by the
cooperative file lock.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			q, err := parseDisplay(args[0], familyFlag)
			if err != nil {
				return err
			}

			hexKey := args[2]
			if hexKey == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read key from stdin: %w", err)
				}
				hexKey = strings.TrimSpace(string(raw))
			}
			key, err := hex.DecodeString(hexKey)
			if err != nil {
				return fmt.Errorf("decode hex key: %w", err)
			}

			rec := &xauth.Record{
				Family:  q.family,
				Address: q.address,
				Number:  q.number,
				Name:    []byte(args[1]),
				Data:    key,
			}
			if err := rec.Validate(); err != nil {
				return err
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
				slog.Debug("record added", "display", args[0], "protocol", args[1], "fingerprint", fp)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&familyFlag, "family", "", "address family for the display argument")
	lf.register(cmd.Flags())
	return cmd
}
