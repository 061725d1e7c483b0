// Package dax provides the entity model for Pegasus abstract workflow
// descriptions (DAX, schema version 3.2).
//
// # Overview
//
// An abstract workflow is a directed acyclic graph of compute nodes. The
// [ADAG] aggregate owns four ordered collections: a replica catalog of
// [File] and [Executable] entries, a transformation catalog of
// [Transformation] entries, a node list of [Job], [SubDAG] and [SubDAX]
// nodes, and a list of control-flow [Dependency] records. Entities are
// shared by reference: the same *File can appear in the replica catalog,
// in job arguments, and in any number of uses declarations, and all of
// them observe later mutations.
//
// # Basic Usage
//
// Create a workflow with [NewADAG], catalog entries with [NewFile] and
// [NewExecutable], and nodes with [NewJob]. Nodes receive a generated
// identifier (ID0000001, ID0000002, ...) when added to the workflow
// unless they were constructed with an explicit one:
//
//	dax, _ := dax.NewADAG("diamond")
//	a, _ := dax.NewFile("f.a", dax.EntryAttrs{Link: dax.LinkInput, Transfer: dax.TransferTrue})
//	dax.AddFile(a)
//	job, _ := dax.NewJob("preprocess", dax.JobAttrs{Namespace: "diamond", Version: "4.0"})
//	job.AddArguments("-i", a)
//	job.AddUses(a, dax.UseAttrs{Link: dax.LinkInput})
//	dax.AddJob(job)
//
// Dependencies are declared between previously added nodes with
// [ADAG.AddDependency]. Parent links accumulate per child in declaration
// order and are never deduplicated.
//
// # Attribute Fallback
//
// Catalog entries carry workflow-level defaults for the link, register,
// transfer and optional attributes. A [Use] may override any of them at
// the job level; an override left unset falls back to the value on the
// referenced entry. [Use.EffectiveLink] and friends resolve the merged
// value.
//
// # Enumerations
//
// Closed attribute vocabularies ([Namespace], [Arch], [OSType], [Link],
// [Transfer], [When]) are string-typed constant groups with a parse
// function each. Constructors reject values outside the vocabulary.
//
// # Concurrency
//
// ADAG instances and the entities they own are not safe for concurrent
// use. Callers must synchronize access if multiple goroutines read or
// modify the same workflow.
//
// # Related Packages
//
// The [codec] subpackage serializes an ADAG to the DAX XML dialect and
// parses documents back into the model.
//
// [codec]: github.com/zaiyan-alam/pegasus/pkg/dax/codec
package dax
