package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gallade/gallade/internal/coordinate"
)

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <namespace:name>",
		Short: "Remove a dependency and anything exclusively reachable through it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := coordinate.Parse(args[0])
			if err != nil {
				return err
			}

			ctx, proj, err := loadProject()
			if err != nil {
				return err
			}

			removed, err := proj.Remove(ctx, coord.Unversioned())
			if err != nil {
				return errors.Wrap(err, "remove")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "removed %s\n", coord.Unversioned())
			for _, c := range removed {
				fmt.Fprintf(out, "  also removed %s (no longer referenced)\n", c)
			}
			return nil
		},
	}
}
