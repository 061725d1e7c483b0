package cli

import (
	"strings"
	"testing"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

func TestSummarize(t *testing.T) {
	a, err := buildDiamond()
	if err != nil {
		t.Fatal(err)
	}

	got := summarize(a)

	for _, want := range []string{"diamond", "ID0000001", "ID0000004", "preprocess", "analyze"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary should contain %q", want)
		}
	}
	// The diamond is a single-part workflow, so no part line appears.
	if strings.Contains(got, "part ") {
		t.Error("summary should not contain a part line for an unpartitioned workflow")
	}
}

func TestSummarizeEdgeLabel(t *testing.T) {
	a, err := dax.NewADAG("labeled")
	if err != nil {
		t.Fatal(err)
	}
	parent, err := dax.NewJob("produce")
	if err != nil {
		t.Fatal(err)
	}
	child, err := dax.NewJob("consume", dax.JobAttrs{NodeLabel: "final"})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.AddJob(parent); err != nil {
		t.Fatal(err)
	}
	if err := a.AddJob(child); err != nil {
		t.Fatal(err)
	}
	if err := a.AddDependency(parent, child, "data"); err != nil {
		t.Fatal(err)
	}

	got := summarize(a)

	if !strings.Contains(got, "(data)") {
		t.Error("summary should show the dependency edge label")
	}
	if !strings.Contains(got, "final") {
		t.Error("summary should show the node label")
	}
}

func TestArgumentLine(t *testing.T) {
	f, err := dax.NewFile("f.a")
	if err != nil {
		t.Fatal(err)
	}
	job, err := dax.NewJob("findrange")
	if err != nil {
		t.Fatal(err)
	}
	if err := job.AddArguments("-i", f, "-o"); err != nil {
		t.Fatal(err)
	}

	if got, want := argumentLine(job), "-i f.a -o"; got != want {
		t.Errorf("argumentLine() = %q, want %q", got, want)
	}
}

func TestArgumentLineEmpty(t *testing.T) {
	job, err := dax.NewJob("noop")
	if err != nil {
		t.Fatal(err)
	}
	if got := argumentLine(job); got != "" {
		t.Errorf("argumentLine() = %q, want empty", got)
	}
}
