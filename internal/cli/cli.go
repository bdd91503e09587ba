package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/fjgen/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// appConfig validates the global flags and merges them into cfg.
func (g *globalFlags) appConfig(cfg app.Config) (*app.Config, error) {
	cfg.LogLevel = strings.ToLower(g.logLevel)
	cfg.LogFormat = strings.ToLower(g.logFormat)
	c, err := app.NewConfig(cfg)
	if err != nil {
		return nil, usageError(err)
	}
	return c, nil
}

// Execute runs the command line args, writing all output to outW. Usage
// problems are returned as *ExitError with code 2.
func Execute(ctx context.Context, outW io.Writer, args []string) error {
	root := NewRootCommand(outW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the fjgen command tree.
func NewRootCommand(outW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "fjgen",
		Short: "Generate randomized fork-join DAG workloads",
		Long: `fjgen synthesizes randomized fork-join structured DAGs with timing
attributes, for use as benchmark inputs to real-time DAG scheduling research.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
				if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
					msg += "\n\nDid you mean this?\n\t" + strings.Join(suggestions, "\n\t")
				}
				return &ExitError{Code: 2, Message: msg}
			}
			return cmd.Help()
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "json", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(
		newGenerateCommand(outW, flags),
		newValidateCommand(outW, flags),
		newInitCommand(outW),
	)
	return root
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
