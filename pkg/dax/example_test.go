package dax_test

import (
	"fmt"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

func ExampleADAG() {
	// Build the classic split/join workflow: one preprocess job fans
	// out to two findrange jobs that join into a final analyze job.
	wf, _ := dax.NewADAG("diamond")

	prep, _ := dax.NewJob("preprocess", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})
	left, _ := dax.NewJob("findrange", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})
	right, _ := dax.NewJob("findrange", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})
	analyze, _ := dax.NewJob("analyze", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})

	for _, j := range []*dax.Job{prep, left, right, analyze} {
		_ = wf.AddJob(j)
	}
	_ = wf.AddDependency(prep, left, "")
	_ = wf.AddDependency(prep, right, "")
	_ = wf.AddDependency(left, analyze, "")
	_ = wf.AddDependency(right, analyze, "")

	fmt.Println("first:", prep.ID())
	fmt.Println("last:", analyze.ID())
	fmt.Println("dependency records:", len(wf.Dependencies()))
	// Output:
	// first: ID0000001
	// last: ID0000004
	// dependency records: 3
}

func ExampleNode_uses() {
	// A use declaration falls back to the referenced entry's
	// workflow-level attributes unless overridden.
	data, _ := dax.NewFile("f.a", dax.EntryAttrs{Link: dax.LinkInput, Transfer: dax.TransferTrue})

	job, _ := dax.NewJob("preprocess")
	_ = job.AddUses(data, dax.UseAttrs{Register: dax.Bool(true)})

	u := job.Uses()[0]
	fmt.Println("link:", u.EffectiveLink())
	fmt.Println("transfer:", u.EffectiveTransfer())
	fmt.Println("register:", u.EffectiveRegister())
	// Output:
	// link: input
	// transfer: true
	// register: true
}

func ExampleTransformationFromExecutable() {
	exe, _ := dax.NewExecutable("findrange", dax.ExecutableAttrs{
		Namespace: "diamond",
		Version:   "4.0",
		Arch:      dax.ArchX86_64,
		OS:        dax.OSLinux,
	})

	tr, _ := dax.TransformationFromExecutable(exe)
	fmt.Println("name:", tr.Name())
	fmt.Println("uses:", len(tr.Uses()))
	// Output:
	// name: findrange
	// uses: 1
}
