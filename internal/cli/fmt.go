package cli

import (
	"github.com/spf13/cobra"

	"github.com/zaiyan-alam/pegasus/pkg/dax/codec"
)

// newFmtCmd creates the fmt command for canonicalizing DAX files.
func newFmtCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a DAX file in canonical form",
		Long: `Fmt parses a DAX file and writes it back with canonical indentation,
attribute order and element order. Equivalent workflows always format
to the same bytes, so formatted files diff cleanly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")

	return cmd
}

func runFmt(input, output string) error {
	a, err := readWorkflow(input)
	if err != nil {
		return err
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	return codec.Write(out, a)
}
