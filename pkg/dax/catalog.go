package dax

import "fmt"

// Profile assigns a value to a key within a [Namespace]. Profiles can
// be attached to catalog entries, nodes and PFNs and are passed through
// to the subsystem that owns the namespace.
type Profile struct {
	Namespace Namespace
	Key       string
	Value     string
}

// NewProfile creates a profile, validating that the namespace is part
// of the recognized vocabulary and that the key is non-empty.
func NewProfile(namespace Namespace, key, value string) (Profile, error) {
	if !namespace.valid() {
		return Profile{}, fmt.Errorf("profile namespace %q: %w", namespace, ErrInvalidAttribute)
	}
	if key == "" {
		return Profile{}, fmt.Errorf("profile key: %w", ErrEmptyName)
	}
	return Profile{Namespace: namespace, Key: key, Value: value}, nil
}

// Metadata annotates a catalog entry, transformation or node with a
// typed key/value pair, for example file sizes or application-specific
// attributes. The type is free-form (string, int, float, ...).
type Metadata struct {
	Key   string
	Type  string
	Value string
}

// NewMetadata creates a metadata annotation with a non-empty key.
func NewMetadata(key, typ, value string) (Metadata, error) {
	if key == "" {
		return Metadata{}, fmt.Errorf("metadata key: %w", ErrEmptyName)
	}
	return Metadata{Key: key, Type: typ, Value: value}, nil
}

// PFN is a physical file name: a URL where a replica of a catalog entry
// can be found, tagged with the site that hosts it.
//
// The zero value is not usable, use [NewPFN].
type PFN struct {
	url      string
	site     string
	profiles []Profile
}

// NewPFN creates a physical file name for url. An empty site defaults
// to "local".
func NewPFN(url, site string) (*PFN, error) {
	if url == "" {
		return nil, fmt.Errorf("pfn url: %w", ErrEmptyName)
	}
	if site == "" {
		site = "local"
	}
	return &PFN{url: url, site: site}, nil
}

// URL returns the replica URL.
func (p *PFN) URL() string { return p.url }

// Site returns the site that hosts the replica.
func (p *PFN) Site() string { return p.site }

// Profiles returns the profiles attached to this PFN in attachment
// order. The returned slice must not be modified.
func (p *PFN) Profiles() []Profile { return p.profiles }

// AddProfile attaches a profile to this PFN. It accepts a [Profile] or
// the positional shorthand [3]string{namespace, key, value}.
func (p *PFN) AddProfile(v any) error {
	pr, err := profileValue(v)
	if err != nil {
		return err
	}
	p.profiles = append(p.profiles, pr)
	return nil
}

// entryCore holds the state shared by File and Executable: the logical
// name, the workflow-level defaults for the uses attributes, and the
// attached annotations.
type entryCore struct {
	name     string
	link     Link
	register bool
	transfer Transfer
	optional bool
	profiles []Profile
	metadata []Metadata
	pfns     []*PFN
}

// EntryAttrs carries the optional workflow-level attributes of a
// catalog entry at construction time. They act as defaults for uses
// declarations that do not override them. Zero values leave the
// entry's own defaults in place.
type EntryAttrs struct {
	Link     Link
	Register bool
	Transfer Transfer
	Optional bool
}

func (c *entryCore) init(name string, attrs EntryAttrs) error {
	if name == "" {
		return ErrEmptyName
	}
	if attrs.Link != "" && !attrs.Link.valid() {
		return fmt.Errorf("link %q: %w", attrs.Link, ErrInvalidAttribute)
	}
	if attrs.Transfer != "" && !attrs.Transfer.valid() {
		return fmt.Errorf("transfer %q: %w", attrs.Transfer, ErrInvalidAttribute)
	}
	c.name = name
	if attrs.Link != "" {
		c.link = attrs.Link
	}
	if attrs.Transfer != "" {
		c.transfer = attrs.Transfer
	}
	c.register = attrs.Register
	c.optional = attrs.Optional
	return nil
}

// Name returns the logical name of the entry.
func (c *entryCore) Name() string { return c.name }

// Link returns the workflow-level linkage of the entry, or the empty
// value if unspecified.
func (c *entryCore) Link() Link { return c.link }

// Register returns the workflow-level default for the register
// attribute.
func (c *entryCore) Register() bool { return c.register }

// Transfer returns the workflow-level default for the transfer
// attribute, or the empty value if unspecified.
func (c *entryCore) Transfer() Transfer { return c.transfer }

// Optional returns the workflow-level default for the optional
// attribute.
func (c *entryCore) Optional() bool { return c.optional }

// Profiles returns the attached profiles in attachment order.
// The returned slice must not be modified.
func (c *entryCore) Profiles() []Profile { return c.profiles }

// Metadata returns the attached metadata in attachment order.
// The returned slice must not be modified.
func (c *entryCore) Metadata() []Metadata { return c.metadata }

// PFNs returns the attached physical file names in attachment order.
// The returned slice must not be modified.
func (c *entryCore) PFNs() []*PFN { return c.pfns }

// AddProfile attaches a profile. It accepts a [Profile] or the
// positional shorthand [3]string{namespace, key, value}.
func (c *entryCore) AddProfile(v any) error {
	p, err := profileValue(v)
	if err != nil {
		return err
	}
	c.profiles = append(c.profiles, p)
	return nil
}

// AddMetadata attaches a metadata annotation. It accepts a [Metadata]
// or the positional shorthand [3]string{key, type, value}.
func (c *entryCore) AddMetadata(v any) error {
	m, err := metadataValue(v)
	if err != nil {
		return err
	}
	c.metadata = append(c.metadata, m)
	return nil
}

// AddPFN attaches a physical file name. It accepts a *[PFN], the
// positional shorthand [2]string{url, site}, or a bare URL string
// (site defaults to "local").
func (c *entryCore) AddPFN(v any) error {
	p, err := pfnValue(v)
	if err != nil {
		return err
	}
	c.pfns = append(c.pfns, p)
	return nil
}

// Entry is a replica catalog entry, implemented by [File] and
// [Executable]. Entries are shared by reference: the same entry may be
// registered in the catalog, referenced from job arguments, and named
// in any number of uses declarations.
type Entry interface {
	Name() string
	Link() Link
	Register() bool
	Transfer() Transfer
	Optional() bool
	Profiles() []Profile
	Metadata() []Metadata
	PFNs() []*PFN
	AddProfile(v any) error
	AddMetadata(v any) error
	AddPFN(v any) error
}

// File is a logical file name: an entry in the DAX-level replica
// catalog, or a reference to a logical file used by the workflow. The
// workflow-level attributes serve as defaults for uses declarations
// referencing this file; if the file is bound as a node's stdin,
// stdout or stderr, its linkage is ignored for that binding.
//
// The zero value is not usable, use [NewFile].
type File struct {
	entryCore
}

// NewFile creates a logical file. All attributes default to
// unspecified.
func NewFile(name string, attrs ...EntryAttrs) (*File, error) {
	f := &File{}
	var a EntryAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if err := f.init(name, a); err != nil {
		return nil, fmt.Errorf("file %q: %w", name, err)
	}
	return f, nil
}

// ExecutableAttrs carries the optional attributes of an executable at
// construction time: the shared catalog attributes plus the identity
// and platform of the binary.
type ExecutableAttrs struct {
	EntryAttrs
	Namespace string
	Version   string
	Arch      Arch
	OS        OSType
	OSRelease string
	OSVersion string
	Glibc     string
}

// Executable is an entry for an executable in the DAX-level replica
// catalog. Unlike a plain file it carries a transformation-catalog
// identity (namespace, name, version) and the platform it was compiled
// for. Its catalog attributes default to link=input, transfer=true.
//
// The zero value is not usable, use [NewExecutable].
type Executable struct {
	entryCore
	namespace string
	version   string
	arch      Arch
	osType    OSType
	osRelease string
	osVersion string
	glibc     string
}

// NewExecutable creates an executable entry.
func NewExecutable(name string, attrs ...ExecutableAttrs) (*Executable, error) {
	e := &Executable{}
	e.link = LinkInput
	e.transfer = TransferTrue
	var a ExecutableAttrs
	if len(attrs) > 0 {
		a = attrs[0]
	}
	if a.Arch != "" && !a.Arch.valid() {
		return nil, fmt.Errorf("executable %q: arch %q: %w", name, a.Arch, ErrInvalidAttribute)
	}
	if a.OS != "" && !a.OS.valid() {
		return nil, fmt.Errorf("executable %q: os %q: %w", name, a.OS, ErrInvalidAttribute)
	}
	if err := e.init(name, a.EntryAttrs); err != nil {
		return nil, fmt.Errorf("executable %q: %w", name, err)
	}
	e.namespace = a.Namespace
	e.version = a.Version
	e.arch = a.Arch
	e.osType = a.OS
	e.osRelease = a.OSRelease
	e.osVersion = a.OSVersion
	e.glibc = a.Glibc
	return e, nil
}

// Namespace returns the transformation-catalog namespace.
func (e *Executable) Namespace() string { return e.namespace }

// Version returns the executable version.
func (e *Executable) Version() string { return e.version }

// Arch returns the architecture the executable was compiled for.
func (e *Executable) Arch() Arch { return e.arch }

// OS returns the operating system the executable was compiled for.
func (e *Executable) OS() OSType { return e.osType }

// OSRelease returns the operating system release.
func (e *Executable) OSRelease() string { return e.osRelease }

// OSVersion returns the operating system version.
func (e *Executable) OSVersion() string { return e.osVersion }

// Glibc returns the glibc version the executable was compiled against.
func (e *Executable) Glibc() string { return e.glibc }

// profileValue normalizes the accepted profile shapes.
func profileValue(v any) (Profile, error) {
	switch p := v.(type) {
	case Profile:
		return NewProfile(p.Namespace, p.Key, p.Value)
	case [3]string:
		ns, err := ParseNamespace(p[0])
		if err != nil {
			return Profile{}, err
		}
		return NewProfile(ns, p[1], p[2])
	default:
		return Profile{}, fmt.Errorf("profile %T: %w", v, ErrInvalidShorthand)
	}
}

// metadataValue normalizes the accepted metadata shapes.
func metadataValue(v any) (Metadata, error) {
	switch m := v.(type) {
	case Metadata:
		return NewMetadata(m.Key, m.Type, m.Value)
	case [3]string:
		return NewMetadata(m[0], m[1], m[2])
	default:
		return Metadata{}, fmt.Errorf("metadata %T: %w", v, ErrInvalidShorthand)
	}
}

// pfnValue normalizes the accepted PFN shapes.
func pfnValue(v any) (*PFN, error) {
	switch p := v.(type) {
	case *PFN:
		if p == nil {
			return nil, fmt.Errorf("pfn: %w", ErrNilEntry)
		}
		if p.url == "" {
			return nil, fmt.Errorf("pfn url: %w", ErrEmptyName)
		}
		return p, nil
	case [2]string:
		return NewPFN(p[0], p[1])
	case string:
		return NewPFN(p, "")
	default:
		return nil, fmt.Errorf("pfn %T: %w", v, ErrInvalidShorthand)
	}
}
