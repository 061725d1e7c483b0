package dax

import "fmt"

// Argument is one command-line token of a node: either a literal
// string or a reference to a logical file whose name is substituted by
// the planner. Exactly one of the two fields is set.
type Argument struct {
	Literal string
	File    *File
}

// Invocation is a notification hook: run the What command on the
// submit host when the node reaches the When lifecycle event.
type Invocation struct {
	When When
	What string
}

// nodeCore holds the state shared by Job, SubDAG and SubDAX.
type nodeCore struct {
	id        string
	name      string
	nodeLabel string

	arguments   []Argument
	profiles    []Profile
	metadata    []Metadata
	uses        []*Use
	invocations []Invocation

	stdin  *File
	stdout *File
	stderr *File
}

// Node is a vertex of the workflow graph, implemented by [Job],
// [SubDAG] and [SubDAX]. All three kinds share the same payload:
// arguments, profiles, metadata, uses declarations, standard stream
// bindings and notification hooks.
type Node interface {
	// ID returns the node identifier, or "" until the node is added to
	// an ADAG without an explicit one.
	ID() string
	// Name returns the logical name of the node.
	Name() string
	// NodeLabel returns the graphing label, or "" if unset.
	NodeLabel() string

	Arguments() []Argument
	Profiles() []Profile
	Metadata() []Metadata
	Uses() []*Use
	Stdin() *File
	Stdout() *File
	Stderr() *File
	Invocations() []Invocation

	AddArguments(args ...any) error
	AddProfile(v any) error
	AddMetadata(v any) error
	AddUses(entry Entry, attrs ...UseAttrs) error
	SetStdin(f *File)
	SetStdout(f *File)
	SetStderr(f *File)
	Invoke(when When, what string) error

	setID(id string)
}

func (n *nodeCore) init(name, id, nodeLabel string) error {
	if name == "" {
		return ErrEmptyName
	}
	n.name = name
	n.id = id
	n.nodeLabel = nodeLabel
	return nil
}

// ID returns the node identifier, or "" if none has been assigned yet.
func (n *nodeCore) ID() string { return n.id }

func (n *nodeCore) setID(id string) { n.id = id }

// Name returns the logical name of the node.
func (n *nodeCore) Name() string { return n.name }

// NodeLabel returns the graphing label, or "" if unset.
func (n *nodeCore) NodeLabel() string { return n.nodeLabel }

// Arguments returns the command-line tokens in declaration order.
// The returned slice must not be modified.
func (n *nodeCore) Arguments() []Argument { return n.arguments }

// Profiles returns the attached profiles in attachment order.
// The returned slice must not be modified.
func (n *nodeCore) Profiles() []Profile { return n.profiles }

// Metadata returns the attached metadata in attachment order.
// The returned slice must not be modified.
func (n *nodeCore) Metadata() []Metadata { return n.metadata }

// Uses returns the uses declarations in declaration order.
// The returned slice must not be modified.
func (n *nodeCore) Uses() []*Use { return n.uses }

// Stdin returns the file the node reads standard input from, or nil.
func (n *nodeCore) Stdin() *File { return n.stdin }

// Stdout returns the file the node writes standard output to, or nil.
func (n *nodeCore) Stdout() *File { return n.stdout }

// Stderr returns the file the node writes standard error to, or nil.
func (n *nodeCore) Stderr() *File { return n.stderr }

// Invocations returns the notification hooks in declaration order.
// The returned slice must not be modified.
func (n *nodeCore) Invocations() []Invocation { return n.invocations }

// AddArguments appends command-line tokens. Each argument must be a
// literal string or a *[File]; file references are substituted with
// the physical location of the file during planning.
func (n *nodeCore) AddArguments(args ...any) error {
	for _, a := range args {
		switch v := a.(type) {
		case string:
			n.arguments = append(n.arguments, Argument{Literal: v})
		case *File:
			if v == nil {
				return fmt.Errorf("argument: %w", ErrNilEntry)
			}
			n.arguments = append(n.arguments, Argument{File: v})
		default:
			return fmt.Errorf("argument %T: %w", a, ErrInvalidShorthand)
		}
	}
	return nil
}

// AddProfile attaches a profile. It accepts a [Profile] or the
// positional shorthand [3]string{namespace, key, value}.
func (n *nodeCore) AddProfile(v any) error {
	p, err := profileValue(v)
	if err != nil {
		return err
	}
	n.profiles = append(n.profiles, p)
	return nil
}

// AddMetadata attaches a metadata annotation. It accepts a [Metadata]
// or the positional shorthand [3]string{key, type, value}.
func (n *nodeCore) AddMetadata(v any) error {
	m, err := metadataValue(v)
	if err != nil {
		return err
	}
	n.metadata = append(n.metadata, m)
	return nil
}

// AddUses declares that the node uses a file or executable, optionally
// overriding the entry's workflow-level attributes for this node.
func (n *nodeCore) AddUses(entry Entry, attrs ...UseAttrs) error {
	u, err := newUse(entry, attrs)
	if err != nil {
		return fmt.Errorf("node %q: %w", n.name, err)
	}
	n.uses = append(n.uses, u)
	return nil
}

// SetStdin redirects standard input from a file. A nil file clears the
// binding. The file's linkage is ignored, stdin is always an input.
func (n *nodeCore) SetStdin(f *File) { n.stdin = f }

// SetStdout redirects standard output to a file. A nil file clears the
// binding.
func (n *nodeCore) SetStdout(f *File) { n.stdout = f }

// SetStderr redirects standard error to a file. A nil file clears the
// binding.
func (n *nodeCore) SetStderr(f *File) { n.stderr = f }

// Invoke runs the what command on the submit host when the node
// reaches the when lifecycle event.
func (n *nodeCore) Invoke(when When, what string) error {
	if !when.valid() {
		return fmt.Errorf("invoke %q: %w", when, ErrInvalidAttribute)
	}
	n.invocations = append(n.invocations, Invocation{When: when, What: what})
	return nil
}

// JobAttrs carries the optional attributes of a job at construction
// time. The identifier should be unique in the workflow; when empty,
// one is generated as the job is added to an ADAG.
type JobAttrs struct {
	ID        string
	Namespace string
	Version   string
	NodeLabel string
}

// Job is a compute node. Its namespace, name and version identify the
// logical transformation to run; all file references stay logical
// until planning.
//
// The zero value is not usable, use [NewJob] or [JobFromTransformation].
type Job struct {
	nodeCore
	namespace string
	version   string
}

// NewJob creates a job running the named transformation.
func NewJob(name string, attrs ...JobAttrs) (*Job, error) {
	j := &Job{}
	var a JobAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if err := j.init(name, a.ID, a.NodeLabel); err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	j.namespace = a.Namespace
	j.version = a.Version
	return j, nil
}

// JobFromTransformation creates a job that inherits its name,
// namespace and version from t. Non-empty attrs override the inherited
// identity.
func JobFromTransformation(t *Transformation, attrs ...JobAttrs) (*Job, error) {
	if t == nil {
		return nil, fmt.Errorf("job: transformation %w", ErrNilEntry)
	}
	var a JobAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if a.Namespace == "" {
		a.Namespace = t.Namespace()
	}
	if a.Version == "" {
		a.Version = t.Version()
	}
	return NewJob(t.Name(), a)
}

// Namespace returns the transformation namespace of the job.
func (j *Job) Namespace() string { return j.namespace }

// Version returns the transformation version of the job.
func (j *Job) Version() string { return j.version }

// NodeAttrs carries the optional attributes of a sub-workflow node at
// construction time.
type NodeAttrs struct {
	ID        string
	NodeLabel string
}

// SubDAG is a node that runs an already-planned sub-workflow from a
// DAG file.
//
// The zero value is not usable, use [NewSubDAG] or [SubDAGFromFile].
type SubDAG struct {
	nodeCore
}

// NewSubDAG creates a sub-DAG node for the named DAG file.
func NewSubDAG(name string, attrs ...NodeAttrs) (*SubDAG, error) {
	d := &SubDAG{}
	var a NodeAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if err := d.init(name, a.ID, a.NodeLabel); err != nil {
		return nil, fmt.Errorf("dag: %w", err)
	}
	return d, nil
}

// SubDAGFromFile creates a sub-DAG node that inherits its name from f
// and uses f with link=input, transfer=true, register=false.
func SubDAGFromFile(f *File, attrs ...NodeAttrs) (*SubDAG, error) {
	if f == nil {
		return nil, fmt.Errorf("dag: %w", ErrNilEntry)
	}
	d, err := NewSubDAG(f.Name(), attrs...)
	if err != nil {
		return nil, err
	}
	err = d.AddUses(f, UseAttrs{Link: LinkInput, Transfer: TransferTrue, Register: Bool(false)})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SubDAX is a node that plans and runs a sub-workflow from another
// abstract workflow description.
//
// The zero value is not usable, use [NewSubDAX] or [SubDAXFromFile].
type SubDAX struct {
	nodeCore
}

// NewSubDAX creates a sub-DAX node for the named workflow file.
func NewSubDAX(name string, attrs ...NodeAttrs) (*SubDAX, error) {
	d := &SubDAX{}
	var a NodeAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if err := d.init(name, a.ID, a.NodeLabel); err != nil {
		return nil, fmt.Errorf("dax: %w", err)
	}
	return d, nil
}

// SubDAXFromFile creates a sub-DAX node that inherits its name from f
// and uses f with link=input, transfer=true, register=false.
func SubDAXFromFile(f *File, attrs ...NodeAttrs) (*SubDAX, error) {
	if f == nil {
		return nil, fmt.Errorf("dax: %w", ErrNilEntry)
	}
	d, err := NewSubDAX(f.Name(), attrs...)
	if err != nil {
		return nil, err
	}
	err = d.AddUses(f, UseAttrs{Link: LinkInput, Transfer: TransferTrue, Register: Bool(false)})
	if err != nil {
		return nil, err
	}
	return d, nil
}
