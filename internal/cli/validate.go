package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/fjgen/internal/app"
	"github.com/vk/fjgen/internal/hcl"
)

func newValidateCommand(outW io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check configuration files without generating anything",
		Long: `Check every configuration file given, or found under a given directory,
against the value rules and the builder's feasibility rules.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := flags.appConfig(app.Config{})
			if err != nil {
				return err
			}

			a := app.NewApp(outW, appConfig, hcl.NewLoader())
			files, err := a.Validate(cmd.Context(), args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(outW, "%d configuration file(s) valid\n", len(files))
			return nil
		},
	}
}
