package dax

import "errors"

var (
	// ErrEmptyName is returned by entity constructors when the required
	// name argument is empty. Every catalog entry, transformation and
	// node must have a non-empty logical name.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrInvalidAttribute is returned when an enumerated attribute value
	// is not part of its vocabulary, either by the Parse functions or by
	// constructors receiving a value cast from an unchecked string.
	ErrInvalidAttribute = errors.New("invalid attribute value")

	// ErrInvalidShorthand is returned by the AddProfile, AddMetadata,
	// AddPFN and AddArguments mutators when the supplied value is neither
	// the dedicated type nor a recognized positional shorthand.
	ErrInvalidShorthand = errors.New("unsupported shorthand value")

	// ErrNilEntry is returned when a catalog entry reference is nil,
	// for example in [ADAG.AddFile] or a uses declaration.
	ErrNilEntry = errors.New("catalog entry must not be nil")

	// ErrNilNode is returned by [ADAG.AddJob] and [ADAG.AddDependency]
	// when a node reference is nil.
	ErrNilNode = errors.New("node must not be nil")

	// ErrDuplicateID is returned by [ADAG.AddJob] when the node carries
	// an identifier that is already taken by another node in the
	// workflow. Node identifiers must be unique.
	ErrDuplicateID = errors.New("duplicate node ID")
)
