package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
)

func newExtractCommand(opts *rootOptions) *cobra.Command {
	var familyFlag string

	cmd := &cobra.Command{
		Use:   "extract <destination> <display>",
		Short: "Copy matching records into another authority file",
		Long: `Write the records matching a display into a separate authority file,
for transfer to another machine or user. "-" writes the raw records to
stdout. Reading the source needs no lock.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}
			q, err := parseDisplay(args[1], familyFlag)
			if err != nil {
				return err
			}

			src, err := xauth.Load(path)
			if err != nil {
				return err
			}
			defer src.Dispose()

			out := xauth.NewStore()
			defer out.Dispose()
			for _, rec := range src.Records() {
				if matchesQuery(rec, q) {
					out.Add(rec.Clone())
				}
			}
			if out.Len() == 0 {
				return fmt.Errorf("no records match %s", args[1])
			}

			dst := args[0]
			if dst == "-" {
				w := bufio.NewWriter(cmd.OutOrStdout())
				if err := out.Encode(w); err != nil {
					return err
				}
				return w.Flush()
			}
			if err := out.Save(dst); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %d record(s) to %s\n", out.Len(), dst)
			return nil
		},
	}

	cmd.Flags().StringVar(&familyFlag, "family", "", "address family for the display argument")
	return cmd
}
