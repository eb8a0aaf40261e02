package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPrintCommand creates the print command: parse a source file and
// print it back in canonical generic form.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "print <file>",
		Short:         "Print an IR source file in canonical generic form",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, m, err := parseModuleFile(rootOpts.FS, args[0])
			if err != nil {
				return err
			}
			defer ctx.Destroy()
			defer m.Destroy()

			fmt.Fprint(cmd.OutOrStdout(), m.String())
			return nil
		},
	}
	return cmd
}
