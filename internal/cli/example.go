package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
	"github.com/zaiyan-alam/pegasus/pkg/dax/codec"
)

// newExampleCmd creates the example command for writing built-in
// sample workflows.
func newExampleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "example [name]",
		Short: "Write a sample workflow DAX",
		Long: `Example writes one of the built-in sample workflows as DAX XML.

Samples:
  diamond   The four-job diamond from the Pegasus tutorial: preprocess
            fans out to two findrange jobs whose outputs merge in analyze.`,
		ValidArgs: []string{"diamond"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExample(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to stdout)")

	return cmd
}

func runExample(name, output string) error {
	a, err := buildExample(name)
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

func buildExample(name string) (*dax.ADAG, error) {
	switch name {
	case "diamond":
		return buildDiamond()
	}
	return nil, fmt.Errorf("unknown example %q", name)
}

// buildDiamond assembles the tutorial diamond workflow: one input file,
// three executables with transformation-catalog entries, four jobs and
// the fan-out/fan-in dependencies between them.
func buildDiamond() (*dax.ADAG, error) {
	a, err := dax.NewADAG("diamond")
	if err != nil {
		return nil, err
	}

	fa, err := dax.NewFile("f.a", dax.EntryAttrs{Link: dax.LinkInput, Transfer: dax.TransferTrue})
	if err != nil {
		return nil, err
	}
	if err := fa.AddPFN([2]string{"gsiftp://site.com/inputs/f.a", "site"}); err != nil {
		return nil, err
	}
	if err := a.AddFile(fa); err != nil {
		return nil, err
	}

	tPreprocess, err := registerExecutable(a, "preprocess")
	if err != nil {
		return nil, err
	}
	tFindrange, err := registerExecutable(a, "findrange")
	if err != nil {
		return nil, err
	}
	tAnalyze, err := registerExecutable(a, "analyze")
	if err != nil {
		return nil, err
	}

	fb1, err := outputFile("f.b1")
	if err != nil {
		return nil, err
	}
	fb2, err := outputFile("f.b2")
	if err != nil {
		return nil, err
	}
	fc1, err := outputFile("f.c1")
	if err != nil {
		return nil, err
	}
	fc2, err := outputFile("f.c2")
	if err != nil {
		return nil, err
	}
	fd, err := dax.NewFile("f.d", dax.EntryAttrs{Link: dax.LinkOutput, Transfer: dax.TransferTrue, Register: true})
	if err != nil {
		return nil, err
	}

	preprocess, err := diamondJob(a, tPreprocess,
		[]any{"-a preprocess", "-T60", "-i", fa, "-o", fb1, fb2},
		[]*dax.File{fa}, []*dax.File{fb1, fb2})
	if err != nil {
		return nil, err
	}
	frLeft, err := diamondJob(a, tFindrange,
		[]any{"-a findrange", "-T60", "-i", fb1, "-o", fc1},
		[]*dax.File{fb1}, []*dax.File{fc1})
	if err != nil {
		return nil, err
	}
	frRight, err := diamondJob(a, tFindrange,
		[]any{"-a findrange", "-T60", "-i", fb2, "-o", fc2},
		[]*dax.File{fb2}, []*dax.File{fc2})
	if err != nil {
		return nil, err
	}
	analyze, err := diamondJob(a, tAnalyze,
		[]any{"-a analyze", "-T60", "-i", fc1, fc2, "-o", fd},
		[]*dax.File{fc1, fc2}, []*dax.File{fd})
	if err != nil {
		return nil, err
	}

	edges := [][2]dax.Node{
		{preprocess, frLeft},
		{preprocess, frRight},
		{frLeft, analyze},
		{frRight, analyze},
	}
	for _, e := range edges {
		if err := a.AddDependency(e[0], e[1], ""); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// registerExecutable declares one diamond binary in the replica catalog
// together with its transformation-catalog entry.
func registerExecutable(a *dax.ADAG, name string) (*dax.Transformation, error) {
	e, err := dax.NewExecutable(name, dax.ExecutableAttrs{
		Namespace: "diamond",
		Version:   "4.0",
		Arch:      dax.ArchX86_64,
		OS:        dax.OSLinux,
	})
	if err != nil {
		return nil, err
	}
	if err := e.AddPFN([2]string{"gsiftp://site.com/bin/" + name, "site"}); err != nil {
		return nil, err
	}
	if err := a.AddExecutable(e); err != nil {
		return nil, err
	}

	t, err := dax.TransformationFromExecutable(e)
	if err != nil {
		return nil, err
	}
	if err := a.AddTransformation(t); err != nil {
		return nil, err
	}
	return t, nil
}

// outputFile creates an intermediate file that is staged out but not
// registered.
func outputFile(name string) (*dax.File, error) {
	return dax.NewFile(name, dax.EntryAttrs{Link: dax.LinkOutput, Transfer: dax.TransferTrue})
}

// diamondJob creates a job for t, wires its argument line and file
// uses, and registers it on the workflow.
func diamondJob(a *dax.ADAG, t *dax.Transformation, args []any, inputs, outputs []*dax.File) (*dax.Job, error) {
	j, err := dax.JobFromTransformation(t)
	if err != nil {
		return nil, err
	}
	if err := j.AddArguments(args...); err != nil {
		return nil, err
	}
	for _, f := range inputs {
		if err := j.AddUses(f, dax.UseAttrs{Link: dax.LinkInput}); err != nil {
			return nil, err
		}
	}
	for _, f := range outputs {
		if err := j.AddUses(f, dax.UseAttrs{Link: dax.LinkOutput}); err != nil {
			return nil, err
		}
	}
	if err := a.AddJob(j); err != nil {
		return nil, err
	}
	return j, nil
}
