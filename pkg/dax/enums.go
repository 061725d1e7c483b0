package dax

import "fmt"

// Namespace scopes a [Profile] key. Profiles carry scheduler-, system-
// and environment-specific settings, and the namespace selects which
// subsystem interprets the key.
type Namespace string

// Profile namespaces recognized by the planner.
const (
	NamespacePegasus  Namespace = "pegasus"
	NamespaceCondor   Namespace = "condor"
	NamespaceDAGMan   Namespace = "dagman"
	NamespaceEnv      Namespace = "env"
	NamespaceHints    Namespace = "hints"
	NamespaceGlobus   Namespace = "globus"
	NamespaceSelector Namespace = "selector"
	NamespaceStat     Namespace = "stat"
)

// ParseNamespace converts s into a [Namespace]. It returns an error
// wrapping [ErrInvalidAttribute] if s is not a recognized namespace.
func ParseNamespace(s string) (Namespace, error) {
	n := Namespace(s)
	if !n.valid() {
		return "", fmt.Errorf("unknown profile namespace %q: %w", s, ErrInvalidAttribute)
	}
	return n, nil
}

func (n Namespace) valid() bool {
	switch n {
	case NamespacePegasus, NamespaceCondor, NamespaceDAGMan, NamespaceEnv,
		NamespaceHints, NamespaceGlobus, NamespaceSelector, NamespaceStat:
		return true
	}
	return false
}

// Arch names the processor architecture an [Executable] was compiled
// for. The empty value means unspecified.
type Arch string

// Architecture types.
const (
	ArchX86     Arch = "x86"
	ArchX86_64  Arch = "x86_64"
	ArchPPC     Arch = "ppc"
	ArchPPC_64  Arch = "ppc_64"
	ArchIA64    Arch = "ia64"
	ArchSPARCV7 Arch = "sparcv7"
	ArchSPARCV9 Arch = "sparcv9"
	ArchAMD64   Arch = "amd64"
)

// ParseArch converts s into an [Arch]. It returns an error wrapping
// [ErrInvalidAttribute] if s is not a recognized architecture.
func ParseArch(s string) (Arch, error) {
	a := Arch(s)
	if !a.valid() {
		return "", fmt.Errorf("unknown architecture %q: %w", s, ErrInvalidAttribute)
	}
	return a, nil
}

func (a Arch) valid() bool {
	switch a {
	case ArchX86, ArchX86_64, ArchPPC, ArchPPC_64, ArchIA64,
		ArchSPARCV7, ArchSPARCV9, ArchAMD64:
		return true
	}
	return false
}

// OSType names the operating system family an [Executable] was compiled
// for. The empty value means unspecified.
type OSType string

// Operating system families.
const (
	OSLinux   OSType = "linux"
	OSSunOS   OSType = "sunos"
	OSAIX     OSType = "aix"
	OSMacOS   OSType = "macos"
	OSWindows OSType = "windows"
)

// ParseOS converts s into an [OSType]. It returns an error wrapping
// [ErrInvalidAttribute] if s is not a recognized operating system.
func ParseOS(s string) (OSType, error) {
	o := OSType(s)
	if !o.valid() {
		return "", fmt.Errorf("unknown operating system %q: %w", s, ErrInvalidAttribute)
	}
	return o, nil
}

func (o OSType) valid() bool {
	switch o {
	case OSLinux, OSSunOS, OSAIX, OSMacOS, OSWindows:
		return true
	}
	return false
}

// Link declares how a file relates to the data flow of a workflow or
// job: consumed as an input, produced as an output, or both. The empty
// value means unspecified.
type Link string

// Linkage directions.
const (
	LinkNone   Link = "none"
	LinkInput  Link = "input"
	LinkOutput Link = "output"
	LinkInout  Link = "inout"
)

// ParseLink converts s into a [Link]. It returns an error wrapping
// [ErrInvalidAttribute] if s is not a recognized linkage.
func ParseLink(s string) (Link, error) {
	l := Link(s)
	if !l.valid() {
		return "", fmt.Errorf("unknown link %q: %w", s, ErrInvalidAttribute)
	}
	return l, nil
}

func (l Link) valid() bool {
	switch l {
	case LinkNone, LinkInput, LinkOutput, LinkInout:
		return true
	}
	return false
}

// Transfer declares whether a file should be staged by the planner.
// TransferOptional requests staging but tolerates failure. The empty
// value means unspecified.
type Transfer string

// Transfer modes.
const (
	TransferFalse    Transfer = "false"
	TransferOptional Transfer = "optional"
	TransferTrue     Transfer = "true"
)

// ParseTransfer converts s into a [Transfer]. It returns an error
// wrapping [ErrInvalidAttribute] if s is not a recognized mode.
func ParseTransfer(s string) (Transfer, error) {
	t := Transfer(s)
	if !t.valid() {
		return "", fmt.Errorf("unknown transfer mode %q: %w", s, ErrInvalidAttribute)
	}
	return t, nil
}

func (t Transfer) valid() bool {
	switch t {
	case TransferFalse, TransferOptional, TransferTrue:
		return true
	}
	return false
}

// When names the node lifecycle event that triggers a notification
// hook. See [Job.Invoke].
type When string

// Notification events.
const (
	// WhenNever disables the notification.
	WhenNever When = "never"
	// WhenStart fires just before the node is submitted.
	WhenStart When = "start"
	// WhenOnError fires after the node finishes with a non-zero exit code.
	WhenOnError When = "on_error"
	// WhenOnSuccess fires after the node finishes with exit code zero.
	WhenOnSuccess When = "on_success"
	// WhenAtEnd fires after the node finishes regardless of exit status.
	WhenAtEnd When = "at_end"
	// WhenAll combines WhenStart and WhenAtEnd.
	WhenAll When = "all"
)

// ParseWhen converts s into a [When]. It returns an error wrapping
// [ErrInvalidAttribute] if s is not a recognized event.
func ParseWhen(s string) (When, error) {
	w := When(s)
	if !w.valid() {
		return "", fmt.Errorf("unknown notification event %q: %w", s, ErrInvalidAttribute)
	}
	return w, nil
}

func (w When) valid() bool {
	switch w {
	case WhenNever, WhenStart, WhenOnError, WhenOnSuccess, WhenAtEnd, WhenAll:
		return true
	}
	return false
}
