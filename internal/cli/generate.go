package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/fjgen/internal/app"
	"github.com/vk/fjgen/internal/hcl"
)

func newGenerateCommand(outW io.Writer, flags *globalFlags) *cobra.Command {
	var (
		destination string
		seed        uint64
		overrides   []string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "generate CONFIG",
		Short: "Generate DAGs from a configuration file",
		Long: `Generate every DAG described by CONFIG (HCL, or HCL's JSON syntax for
.json files) and write the configured formats and figures.`,
		Example: `  fjgen generate bench.hcl
  fjgen generate bench.hcl --seed 7 --destination s3://bench/runs/7
  fjgen generate bench.hcl --set 'fork_depth=[2, 5]' --set nr_fork=3`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config{
				ConfigPath:  args[0],
				Overrides:   overrides,
				Destination: destination,
				DryRun:      dryRun,
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = &seed
			}
			appConfig, err := flags.appConfig(cfg)
			if err != nil {
				return err
			}

			a := app.NewApp(outW, appConfig, hcl.NewLoader(appConfig.Overrides...))
			summary, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			if summary.DryRun {
				fmt.Fprintf(outW, "Generated %d DAGs (run %s, seed %d); dry run, %d artifacts discarded\n",
					summary.DAGs, summary.RunID, summary.Seed, len(summary.Artifacts))
				return nil
			}
			fmt.Fprintf(outW, "Generated %d DAGs (run %s, seed %d) in %s\n",
				summary.DAGs, summary.RunID, summary.Seed, summary.Destination)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&destination, "destination", "d", "", "Output directory or s3://bucket/prefix; overrides output.destination.")
	f.Uint64Var(&seed, "seed", 0, "Random seed; overrides the seed of the configuration file.")
	f.StringArrayVar(&overrides, "set", nil, "Override a top-level attribute, as name=value. Repeatable.")
	f.BoolVar(&dryRun, "dry-run", false, "Render every artifact in memory without writing it.")
	return cmd
}
