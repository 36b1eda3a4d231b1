package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kardianos/xauth"
)

func newMergeCommand(opts *rootOptions) *cobra.Command {
	var lf lockFlags

	cmd := &cobra.Command{
		Use:   "merge <source>...",
		Short: "Merge records from other authority files",
		Long: `Merge every record from the source files into the authority file.
Records with a matching identity replace the existing entry in place;
new records are appended in source order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.authorityPath()
			if err != nil {
				return err
			}

			return withLock(path, lf.policy(), func() error {
				dst, err := xauth.LoadOrEmpty(path)
				if err != nil {
					return err
				}
				defer dst.Dispose()

				total := 0
				for _, srcPath := range args {
					src, err := xauth.Load(srcPath)
					if err != nil {
						return err
					}
					total += dst.Merge(src)
					src.Dispose()
				}
				if err := dst.Save(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "merged %d record(s) from %d file(s)\n", total, len(args))
				return nil
			})
		},
	}

	lf.register(cmd.Flags())
	return cmd
}
