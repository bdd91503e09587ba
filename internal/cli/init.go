package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/vk/fjgen/internal/hcl"
)

const defaultSamplePath = "fjgen.hcl"

func newInitCommand(outW io.Writer) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [FILE]",
		Short: "Write a sample configuration file",
		Long: `Write a sample configuration to FILE (default fjgen.hcl), or to standard
output when FILE is "-". Existing files are kept unless --force is given.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultSamplePath
			if len(args) == 1 {
				path = args[0]
			}
			sample := hcl.Encode(hcl.Sample())

			if path == "-" {
				_, err := outW.Write(sample)
				return err
			}

			flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
			f, err := os.OpenFile(path, flag, 0o644)
			if errors.Is(err, fs.ErrExist) {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%s already exists; use --force to overwrite it", path)}
			}
			if err != nil {
				return err
			}
			if _, err := f.Write(sample); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(outW, "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite FILE if it exists.")
	return cmd
}
