package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate command for syntax-checking DAX
// files.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a DAX file parses cleanly",
		Long: `Validate parses a DAX v3.2 file and reports the first error it finds.

A file is valid when every element is recognized, every attribute has a
value from the schema's vocabulary, and every dependency refers to a
declared job. On success a short summary of the workflow is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runValidate(ctx context.Context, input string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	a, err := readWorkflow(input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %s", input))

	printSuccess("%s is a valid workflow", a.Name())
	printStats(len(a.Nodes()), len(a.Files()), len(a.Dependencies()))
	return nil
}
