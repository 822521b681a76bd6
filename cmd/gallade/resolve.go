package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gallade/gallade/internal/coordinate"
)

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <namespace:name:version>",
		Short: "Resolve a root artifact's dependency graph and write the lockfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := coordinate.Parse(args[0])
			if err != nil {
				return err
			}
			if coord.Version == "" {
				return errors.Errorf("%s must include a version to resolve", args[0])
			}

			ctx, proj, err := loadProject()
			if err != nil {
				return err
			}

			if err := proj.Resolve(cmd.Context(), ctx, coord.Unversioned(), coord.Version); err != nil {
				return errors.Wrap(err, "resolve")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "resolved %s, wrote %s\n", coord, ctx.LockPath())
			return nil
		},
	}
}
