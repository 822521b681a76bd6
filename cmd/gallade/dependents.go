package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gallade/gallade/internal/coordinate"
)

func newDependentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dependents <namespace:name>",
		Short: "List the coordinates that directly depend on the given artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := coordinate.Parse(args[0])
			if err != nil {
				return err
			}

			_, proj, err := loadProject()
			if err != nil {
				return err
			}

			dependents := proj.DependentsOf(coord.Unversioned())
			out := cmd.OutOrStdout()
			if len(dependents) == 0 {
				fmt.Fprintf(out, "no dependents of %s in the lockfile\n", coord.Unversioned())
				return nil
			}
			for _, d := range dependents {
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}
}
