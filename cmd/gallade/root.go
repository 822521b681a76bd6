package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gallade/gallade/internal/gallade"
	"github.com/gallade/gallade/internal/gallog"
	"github.com/gallade/gallade/internal/registry"
)

var (
	verbose       bool
	requestTimout time.Duration
)

// loadDotEnvOnce loads a .env file from the working directory or one of its
// parents, same fallback shape as the config this CLI's stack is grounded
// on: missing or unreadable .env files are not fatal, a registry override
// is still possible via plain environment variables.
func loadDotEnvOnce() {
	candidates := []string{".env", "../.env", "../../.env"}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gallade",
		Short:         "Resolve and lock Maven-style JVM dependencies",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnvOnce()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().DurationVar(&requestTimout, "timeout", registry.DefaultTimeout*time.Second, "timeout applied to registry requests")

	root.AddCommand(newResolveCommand())
	root.AddCommand(newRemoveCommand())
	root.AddCommand(newDependentsCommand())

	return root
}

// loadProject wires a gallade.Project rooted at the current working
// directory, honoring the -v/--timeout persistent flags.
func loadProject() (*gallade.Ctx, *gallade.Project, error) {
	ctx, err := gallade.NewContext()
	if err != nil {
		return nil, nil, err
	}
	ctx.RequestTimeout = requestTimout
	ctx.Log = &gallog.Loggers{
		Out:     log.New(os.Stdout, "", 0),
		Err:     log.New(os.Stderr, "", 0),
		Verbose: verbose,
	}

	mavenCentral := registry.NewMavenCentral(requestTimout)
	proj, err := gallade.LoadProject(ctx, mavenCentral)
	if err != nil {
		return nil, nil, err
	}
	return ctx, proj, nil
}
