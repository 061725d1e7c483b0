package dax

import "fmt"

// ParentEdge is one parent link of a [Dependency], optionally labeled
// for graphing.
type ParentEdge struct {
	Parent    Node
	EdgeLabel string
}

// Dependency groups the control-flow parents of a single child node.
// Parent links accumulate in declaration order and are never
// deduplicated: declaring the same parent twice yields two links.
type Dependency struct {
	child   Node
	parents []ParentEdge
}

// Child returns the child node of this dependency record.
func (d *Dependency) Child() Node { return d.child }

// Parents returns the parent links in declaration order.
// The returned slice must not be modified.
func (d *Dependency) Parents() []ParentEdge { return d.parents }

// ADAGAttrs carries the optional partition attributes of a workflow at
// construction time: the total number of partitions the workflow was
// split into and the zero-based index of this one. Zero means
// unpartitioned.
type ADAGAttrs struct {
	Count int
	Index int
}

// ADAG is an abstract workflow: a directed acyclic graph of compute
// nodes together with the replica and transformation catalogs they
// reference.
//
// Catalog entries and nodes are held by reference and in insertion
// order. Registering an entry that is already present is a no-op, the
// catalogs never hold the same entity twice.
//
// The zero value is not usable, use [NewADAG]. ADAG instances are not
// safe for concurrent use.
type ADAG struct {
	name  string
	count int
	index int

	// sequence feeds the node ID allocator.
	sequence int

	files           []*File
	executables     []*Executable
	transformations []*Transformation
	nodes           []Node
	byID            map[string]Node

	dependencies []*Dependency
	byChild      map[Node]*Dependency
}

// NewADAG creates an empty workflow with the given name.
func NewADAG(name string, attrs ...ADAGAttrs) (*ADAG, error) {
	if name == "" {
		return nil, fmt.Errorf("adag: %w", ErrEmptyName)
	}
	a := &ADAG{
		name:     name,
		sequence: 1,
		byID:     make(map[string]Node),
		byChild:  make(map[Node]*Dependency),
	}
	if len(attrs) > 0 {
		a.count = attrs[0].Count
		a.index = attrs[0].Index
	}
	return a, nil
}

// Name returns the workflow name.
func (a *ADAG) Name() string { return a.name }

// Count returns the total number of workflow partitions, or 0 if the
// workflow is not partitioned.
func (a *ADAG) Count() int { return a.count }

// Index returns the zero-based partition index.
func (a *ADAG) Index() int { return a.index }

// Files returns the replica catalog files in registration order.
// The returned slice must not be modified.
func (a *ADAG) Files() []*File { return a.files }

// Executables returns the replica catalog executables in registration
// order. The returned slice must not be modified.
func (a *ADAG) Executables() []*Executable { return a.executables }

// Transformations returns the transformation catalog in registration
// order. The returned slice must not be modified.
func (a *ADAG) Transformations() []*Transformation { return a.transformations }

// Nodes returns the workflow nodes in the order they were added.
// The returned slice must not be modified.
func (a *ADAG) Nodes() []Node { return a.nodes }

// Node returns the node with the given identifier and true, or nil and
// false if no such node was added.
func (a *ADAG) Node(id string) (Node, bool) {
	n, ok := a.byID[id]
	return n, ok
}

// Dependencies returns the dependency records in the order their
// children were first declared. The returned slice must not be
// modified.
func (a *ADAG) Dependencies() []*Dependency { return a.dependencies }

// AddFile registers a file in the replica catalog. Registering the
// same file again is a no-op. Registration is not required for the
// file to be referenced by nodes.
func (a *ADAG) AddFile(f *File) error {
	if f == nil {
		return fmt.Errorf("adag %q: add file: %w", a.name, ErrNilEntry)
	}
	for _, existing := range a.files {
		if existing == f {
			return nil
		}
	}
	a.files = append(a.files, f)
	return nil
}

// AddExecutable registers an executable in the replica catalog.
// Registering the same executable again is a no-op.
func (a *ADAG) AddExecutable(e *Executable) error {
	if e == nil {
		return fmt.Errorf("adag %q: add executable: %w", a.name, ErrNilEntry)
	}
	for _, existing := range a.executables {
		if existing == e {
			return nil
		}
	}
	a.executables = append(a.executables, e)
	return nil
}

// AddTransformation registers a transformation in the transformation
// catalog. Registering the same transformation again is a no-op.
func (a *ADAG) AddTransformation(t *Transformation) error {
	if t == nil {
		return fmt.Errorf("adag %q: add transformation: %w", a.name, ErrNilEntry)
	}
	for _, existing := range a.transformations {
		if existing == t {
			return nil
		}
	}
	a.transformations = append(a.transformations, t)
	return nil
}

// AddJob adds a node to the workflow. A node without an identifier
// receives the next generated one (ID0000001, ID0000002, ...); a node
// constructed with an explicit identifier keeps it and does not
// advance the generator. Returns an error wrapping [ErrDuplicateID] if
// the identifier is already taken.
func (a *ADAG) AddJob(n Node) error {
	if n == nil {
		return fmt.Errorf("adag %q: add job: %w", a.name, ErrNilNode)
	}
	id := n.ID()
	generated := id == ""
	if generated {
		id = fmt.Sprintf("ID%07d", a.sequence)
	}
	if _, taken := a.byID[id]; taken {
		return fmt.Errorf("adag %q: add job %q: %w", a.name, id, ErrDuplicateID)
	}
	if generated {
		n.setID(id)
		a.sequence++
	}
	a.nodes = append(a.nodes, n)
	a.byID[id] = n
	return nil
}

// AddDAG adds a sub-DAG node. It is shorthand for [ADAG.AddJob].
func (a *ADAG) AddDAG(d *SubDAG) error { return a.AddJob(d) }

// AddDAX adds a sub-DAX node. It is shorthand for [ADAG.AddJob].
func (a *ADAG) AddDAX(d *SubDAX) error { return a.AddJob(d) }

// AddDependency declares that child must run after parent. The link is
// appended to the child's dependency record, creating the record on
// first declaration. Duplicate declarations are kept.
func (a *ADAG) AddDependency(parent, child Node, edgeLabel string) error {
	if parent == nil || child == nil {
		return fmt.Errorf("adag %q: add dependency: %w", a.name, ErrNilNode)
	}
	dep, ok := a.byChild[child]
	if !ok {
		dep = &Dependency{child: child}
		a.byChild[child] = dep
		a.dependencies = append(a.dependencies, dep)
	}
	dep.parents = append(dep.parents, ParentEdge{Parent: parent, EdgeLabel: edgeLabel})
	return nil
}
