// Package pkg provides the core libraries for working with Pegasus
// abstract workflows.
//
// # Overview
//
// An abstract workflow (a DAX) names the jobs of a scientific
// computation, the logical files flowing between them, and the
// control-flow dependencies that order them. Everything stays logical:
// no physical file paths, no site selection, no scheduling. The pkg
// directory is organized into three main areas:
//
//  1. [dax] - The workflow data model (catalogs, jobs, dependencies)
//  2. [dax/codec] - The DAX v3.2 XML wire format
//  3. [monitoring], [cache], [dot] - Workflow tracking and rendering
//
// # Architecture
//
// The typical data flow:
//
//	DAX v3.2 XML document
//	         ↓
//	    [dax/codec] package (decode to the in-memory model)
//	         ↓
//	    [dax] package (catalogs, nodes, dependency graph)
//	         ↓
//	    [dax/codec] or [dot] (canonical XML or Graphviz output)
//
// # Quick Start
//
// Build a two-job workflow and write it as DAX XML:
//
//	import (
//	    "os"
//	    "github.com/zaiyan-alam/pegasus/pkg/dax"
//	    "github.com/zaiyan-alam/pegasus/pkg/dax/codec"
//	)
//
//	// 1. Declare the workflow and a logical file
//	a, _ := dax.NewADAG("blackdiamond")
//	f, _ := dax.NewFile("f.b1")
//
//	// 2. Add jobs that produce and consume the file
//	produce, _ := dax.NewJob("preprocess", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})
//	produce.AddUses(f, dax.UseAttrs{Link: dax.LinkOutput})
//	consume, _ := dax.NewJob("findrange", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})
//	consume.AddUses(f, dax.UseAttrs{Link: dax.LinkInput})
//	a.AddJob(produce)
//	a.AddJob(consume)
//
//	// 3. Order them and encode
//	a.AddDependency(produce, consume, "")
//	codec.Write(os.Stdout, a)
//
// # Main Packages
//
// [dax] - The abstract workflow model: the ADAG aggregate with its
// replica catalog (files and executables), transformation catalog,
// nodes (jobs, sub-DAG and sub-DAX workflows) and dependency edges.
// Node IDs are allocated automatically and every reference is checked
// at insertion.
//
// [dax/codec] - Bidirectional DAX v3.2 XML codec. The encoder writes
// the canonical form (fixed indentation, attribute and section order),
// so equal workflows always encode to equal bytes. The decoder is
// strict: unknown elements, attribute values outside the schema
// vocabulary and dangling references are errors.
//
// [monitoring] - Root workflow records as kept by the master database,
// plus the stampede database resolver that maps a workflow to the
// per-run database its events land in. [monitoring/queries] holds the
// MySQL queries behind the REST API.
//
// [cache] - Small byte cache with null, disk and redis backends, used
// to keep resolved stampede database URLs close to the API.
//
// [dot] - Graphviz rendering of the job graph, as DOT text or SVG.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                # All tests
//	go test ./pkg/dax/...            # Model and codec only
//
// Cache and query tests against real backends are guarded by
// environment variables (PEGASUS_REDIS_TEST_ADDR, PEGASUS_MYSQL_TEST_DSN)
// and skip when unset.
//
// [dax]: https://pkg.go.dev/github.com/zaiyan-alam/pegasus/pkg/dax
// [dax/codec]: https://pkg.go.dev/github.com/zaiyan-alam/pegasus/pkg/dax/codec
// [monitoring]: https://pkg.go.dev/github.com/zaiyan-alam/pegasus/pkg/monitoring
// [monitoring/queries]: https://pkg.go.dev/github.com/zaiyan-alam/pegasus/pkg/monitoring/queries
// [cache]: https://pkg.go.dev/github.com/zaiyan-alam/pegasus/pkg/cache
// [dot]: https://pkg.go.dev/github.com/zaiyan-alam/pegasus/pkg/dot
package pkg
