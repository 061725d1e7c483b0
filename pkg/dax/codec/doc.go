// Package codec serializes abstract workflows to the Pegasus DAX XML
// dialect (schema version 3.2) and parses DAX documents back into the
// [dax] entity model.
//
// # Document Layout
//
// A DAX document is a single adag element containing four sections in
// fixed order: the replica catalog (file and executable elements), the
// transformation catalog, the node definitions (job, dag and dax
// elements) and the control-flow dependencies (child elements with
// nested parent references). The encoder emits the sections in this
// order with a comment announcing each, and writes entity collections
// in their insertion order, so encoding the same workflow twice
// produces identical bytes apart from the timestamp in the header
// comment.
//
// # Encoding
//
// [Write] streams a workflow to an io.Writer; [Marshal] returns the
// document as a byte slice. Optional attributes are omitted when they
// hold their zero value, and uses declarations carry the effective
// attribute values after job-level overrides are merged with the
// referenced entry's defaults.
//
// # Decoding
//
// [Read] and [Unmarshal] parse a document in one pass over the XML
// token stream, maintaining an explicit stack of open elements plus
// two lookup tables: logical name to catalog entry and node identifier
// to node. A file or executable name seen twice resolves to the entity
// created first; forward references from dependency sections to
// undefined nodes are rejected. Decoding stops at the first structural
// error and returns a [DecodeError] that wraps one of the package's
// sentinel errors or a validation error from the entity constructors,
// so callers can classify failures with errors.Is.
package codec
