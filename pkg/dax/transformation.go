package dax

import "fmt"

// Bool returns a pointer to v. It is a convenience for populating the
// optional boolean overrides in [UseAttrs].
func Bool(v bool) *bool { return &v }

// UseAttrs carries the job-level attribute overrides of a uses
// declaration. An override left at its zero value (empty enum, nil
// pointer) is unset and falls back to the workflow-level default of the
// referenced catalog entry.
type UseAttrs struct {
	Link     Link
	Register *bool
	Transfer Transfer
	Optional *bool
}

// Use declares that a node or transformation consumes or produces a
// catalog entry, optionally overriding the entry's workflow-level
// attributes for this one declaration.
//
// Use values are created through the AddUses methods on nodes and
// transformations.
type Use struct {
	entry    Entry
	link     Link
	register *bool
	transfer Transfer
	optional *bool
}

func newUse(entry Entry, attrs []UseAttrs) (*Use, error) {
	if entry == nil {
		return nil, fmt.Errorf("uses: %w", ErrNilEntry)
	}
	var a UseAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if a.Link != "" && !a.Link.valid() {
		return nil, fmt.Errorf("uses %q: link %q: %w", entry.Name(), a.Link, ErrInvalidAttribute)
	}
	if a.Transfer != "" && !a.Transfer.valid() {
		return nil, fmt.Errorf("uses %q: transfer %q: %w", entry.Name(), a.Transfer, ErrInvalidAttribute)
	}
	return &Use{
		entry:    entry,
		link:     a.Link,
		register: a.Register,
		transfer: a.Transfer,
		optional: a.Optional,
	}, nil
}

// Entry returns the referenced catalog entry.
func (u *Use) Entry() Entry { return u.entry }

// EffectiveLink returns the link override, falling back to the linkage
// of the referenced entry when unset.
func (u *Use) EffectiveLink() Link {
	if u.link != "" {
		return u.link
	}
	return u.entry.Link()
}

// EffectiveRegister returns the register override, falling back to the
// referenced entry when unset.
func (u *Use) EffectiveRegister() bool {
	if u.register != nil {
		return *u.register
	}
	return u.entry.Register()
}

// EffectiveTransfer returns the transfer override, falling back to the
// referenced entry when unset.
func (u *Use) EffectiveTransfer() Transfer {
	if u.transfer != "" {
		return u.transfer
	}
	return u.entry.Transfer()
}

// EffectiveOptional returns the optional override, falling back to the
// referenced entry when unset.
func (u *Use) EffectiveOptional() bool {
	if u.optional != nil {
		return *u.optional
	}
	return u.entry.Optional()
}

// TransformationAttrs carries the optional identity attributes of a
// transformation at construction time.
type TransformationAttrs struct {
	Namespace string
	Version   string
}

// Transformation is an entry in the DAX-level transformation catalog.
// It groups the files and executables a logical transformation needs,
// so that jobs referring to it inherit the whole set during planning.
//
// The zero value is not usable, use [NewTransformation] or
// [TransformationFromExecutable].
type Transformation struct {
	name      string
	namespace string
	version   string
	uses      []*Use
	metadata  []Metadata
}

// NewTransformation creates a transformation with the given logical
// name.
func NewTransformation(name string, attrs ...TransformationAttrs) (*Transformation, error) {
	if name == "" {
		return nil, fmt.Errorf("transformation: %w", ErrEmptyName)
	}
	t := &Transformation{name: name}
	if len(attrs) > 0 {
		t.namespace = attrs[0].Namespace
		t.version = attrs[0].Version
	}
	return t, nil
}

// TransformationFromExecutable creates a transformation that inherits
// its name, namespace and version from e and uses e with link=input,
// transfer=true, register=false. Non-empty attrs override the inherited
// identity.
func TransformationFromExecutable(e *Executable, attrs ...TransformationAttrs) (*Transformation, error) {
	if e == nil {
		return nil, fmt.Errorf("transformation: %w", ErrNilEntry)
	}
	t := &Transformation{
		name:      e.Name(),
		namespace: e.Namespace(),
		version:   e.Version(),
	}
	if len(attrs) > 0 {
		if attrs[0].Namespace != "" {
			t.namespace = attrs[0].Namespace
		}
		if attrs[0].Version != "" {
			t.version = attrs[0].Version
		}
	}
	err := t.AddUses(e, UseAttrs{Link: LinkInput, Transfer: TransferTrue, Register: Bool(false)})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the logical name of the transformation.
func (t *Transformation) Name() string { return t.name }

// Namespace returns the transformation-catalog namespace.
func (t *Transformation) Namespace() string { return t.namespace }

// Version returns the transformation version.
func (t *Transformation) Version() string { return t.version }

// Uses returns the uses declarations in declaration order.
// The returned slice must not be modified.
func (t *Transformation) Uses() []*Use { return t.uses }

// Metadata returns the attached metadata in attachment order.
// The returned slice must not be modified.
func (t *Transformation) Metadata() []Metadata { return t.metadata }

// AddUses declares that the transformation uses a file or executable,
// optionally overriding the entry's workflow-level attributes.
func (t *Transformation) AddUses(entry Entry, attrs ...UseAttrs) error {
	u, err := newUse(entry, attrs)
	if err != nil {
		return fmt.Errorf("transformation %q: %w", t.name, err)
	}
	t.uses = append(t.uses, u)
	return nil
}

// AddMetadata attaches a metadata annotation. It accepts a [Metadata]
// or the positional shorthand [3]string{key, type, value}.
func (t *Transformation) AddMetadata(v any) error {
	m, err := metadataValue(v)
	if err != nil {
		return err
	}
	t.metadata = append(t.metadata, m)
	return nil
}
