package dax

import (
	"errors"
	"testing"
)

func TestNewFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		attrs   []EntryAttrs
		wantErr error
		check   func(t *testing.T, f *File)
	}{
		{
			name: "Defaults",
			file: "f.a",
			check: func(t *testing.T, f *File) {
				if f.Link() != "" {
					t.Errorf("Link = %q, want unset", f.Link())
				}
				if f.Transfer() != "" {
					t.Errorf("Transfer = %q, want unset", f.Transfer())
				}
				if f.Register() || f.Optional() {
					t.Errorf("Register/Optional = %v/%v, want false/false", f.Register(), f.Optional())
				}
			},
		},
		{
			name:  "Attributes",
			file:  "f.d",
			attrs: []EntryAttrs{{Link: LinkOutput, Transfer: TransferTrue, Register: true, Optional: true}},
			check: func(t *testing.T, f *File) {
				if f.Link() != LinkOutput {
					t.Errorf("Link = %q, want %q", f.Link(), LinkOutput)
				}
				if f.Transfer() != TransferTrue {
					t.Errorf("Transfer = %q, want %q", f.Transfer(), TransferTrue)
				}
				if !f.Register() || !f.Optional() {
					t.Errorf("Register/Optional = %v/%v, want true/true", f.Register(), f.Optional())
				}
			},
		},
		{
			name:    "EmptyName",
			file:    "",
			wantErr: ErrEmptyName,
		},
		{
			name:    "BadLink",
			file:    "f.a",
			attrs:   []EntryAttrs{{Link: "sideways"}},
			wantErr: ErrInvalidAttribute,
		},
		{
			name:    "BadTransfer",
			file:    "f.a",
			attrs:   []EntryAttrs{{Transfer: "maybe"}},
			wantErr: ErrInvalidAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFile(tt.file, tt.attrs...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewFile error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewFile: %v", err)
			}
			if f.Name() != tt.file {
				t.Errorf("Name = %q, want %q", f.Name(), tt.file)
			}
			if tt.check != nil {
				tt.check(t, f)
			}
		})
	}
}

func TestNewExecutable(t *testing.T) {
	e, err := NewExecutable("preprocess", ExecutableAttrs{
		Namespace: "diamond",
		Version:   "4.0",
		Arch:      ArchX86_64,
		OS:        OSLinux,
	})
	if err != nil {
		t.Fatalf("NewExecutable: %v", err)
	}

	if e.Namespace() != "diamond" || e.Version() != "4.0" {
		t.Errorf("identity = %q/%q, want diamond/4.0", e.Namespace(), e.Version())
	}
	if e.Arch() != ArchX86_64 {
		t.Errorf("Arch = %q, want %q", e.Arch(), ArchX86_64)
	}
	if e.OS() != OSLinux {
		t.Errorf("OS = %q, want %q", e.OS(), OSLinux)
	}
}

func TestNewExecutableDefaults(t *testing.T) {
	e, err := NewExecutable("tool")
	if err != nil {
		t.Fatalf("NewExecutable: %v", err)
	}

	if e.Link() != LinkInput {
		t.Errorf("Link = %q, want %q", e.Link(), LinkInput)
	}
	if e.Transfer() != TransferTrue {
		t.Errorf("Transfer = %q, want %q", e.Transfer(), TransferTrue)
	}
	if e.Register() {
		t.Error("Register = true, want false")
	}
}

func TestNewExecutableInvalid(t *testing.T) {
	tests := []struct {
		name  string
		attrs ExecutableAttrs
	}{
		{name: "BadArch", attrs: ExecutableAttrs{Arch: "z80"}},
		{name: "BadOS", attrs: ExecutableAttrs{OS: "plan9"}},
		{name: "BadLink", attrs: ExecutableAttrs{EntryAttrs: EntryAttrs{Link: "up"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewExecutable("tool", tt.attrs); !errors.Is(err, ErrInvalidAttribute) {
				t.Errorf("NewExecutable error = %v, want %v", err, ErrInvalidAttribute)
			}
		})
	}
}

func TestAddProfileShapes(t *testing.T) {
	f, err := NewFile("f.a")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.AddProfile(Profile{Namespace: NamespaceEnv, Key: "PATH", Value: "/bin"}); err != nil {
		t.Fatalf("AddProfile struct: %v", err)
	}
	if err := f.AddProfile([3]string{"condor", "universe", "vanilla"}); err != nil {
		t.Fatalf("AddProfile tuple: %v", err)
	}

	got := f.Profiles()
	if len(got) != 2 {
		t.Fatalf("profiles = %d, want 2", len(got))
	}
	if got[0].Key != "PATH" || got[0].Value != "/bin" {
		t.Errorf("profiles[0] = %+v", got[0])
	}
	if got[1].Namespace != NamespaceCondor || got[1].Key != "universe" {
		t.Errorf("profiles[1] = %+v", got[1])
	}
}

func TestAddProfileInvalid(t *testing.T) {
	f, err := NewFile("f.a")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.AddProfile([3]string{"nosuch", "key", "value"}); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("unknown namespace error = %v, want %v", err, ErrInvalidAttribute)
	}
	if err := f.AddProfile(Profile{Namespace: NamespaceEnv, Value: "v"}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty key error = %v, want %v", err, ErrEmptyName)
	}
	if err := f.AddProfile(42); !errors.Is(err, ErrInvalidShorthand) {
		t.Errorf("bad shape error = %v, want %v", err, ErrInvalidShorthand)
	}
}

func TestAddMetadataShapes(t *testing.T) {
	e, err := NewExecutable("tool")
	if err != nil {
		t.Fatal(err)
	}

	if err := e.AddMetadata(Metadata{Key: "size", Type: "int", Value: "1024"}); err != nil {
		t.Fatalf("AddMetadata struct: %v", err)
	}
	if err := e.AddMetadata([3]string{"os", "string", "LINUX"}); err != nil {
		t.Fatalf("AddMetadata tuple: %v", err)
	}
	if err := e.AddMetadata([3]string{"", "string", "x"}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty key error = %v, want %v", err, ErrEmptyName)
	}
	if err := e.AddMetadata(3.14); !errors.Is(err, ErrInvalidShorthand) {
		t.Errorf("bad shape error = %v, want %v", err, ErrInvalidShorthand)
	}

	if got := len(e.Metadata()); got != 2 {
		t.Errorf("metadata = %d, want 2", got)
	}
}

func TestAddPFNShapes(t *testing.T) {
	f, err := NewFile("f.a")
	if err != nil {
		t.Fatal(err)
	}

	p, err := NewPFN("gsiftp://site.com/f.a", "site")
	if err != nil {
		t.Fatalf("NewPFN: %v", err)
	}
	if err := f.AddPFN(p); err != nil {
		t.Fatalf("AddPFN pointer: %v", err)
	}
	if err := f.AddPFN([2]string{"http://mirror.org/f.a", "mirror"}); err != nil {
		t.Fatalf("AddPFN tuple: %v", err)
	}
	if err := f.AddPFN("file:///tmp/f.a"); err != nil {
		t.Fatalf("AddPFN url: %v", err)
	}

	pfns := f.PFNs()
	if len(pfns) != 3 {
		t.Fatalf("pfns = %d, want 3", len(pfns))
	}
	if pfns[0] != p {
		t.Error("pfns[0] is not the attached pointer")
	}
	if pfns[1].Site() != "mirror" {
		t.Errorf("pfns[1].Site = %q, want mirror", pfns[1].Site())
	}
	if pfns[2].Site() != "local" {
		t.Errorf("pfns[2].Site = %q, want local", pfns[2].Site())
	}
}

func TestAddPFNInvalid(t *testing.T) {
	f, err := NewFile("f.a")
	if err != nil {
		t.Fatal(err)
	}

	if err := f.AddPFN((*PFN)(nil)); !errors.Is(err, ErrNilEntry) {
		t.Errorf("nil pointer error = %v, want %v", err, ErrNilEntry)
	}
	if err := f.AddPFN(7); !errors.Is(err, ErrInvalidShorthand) {
		t.Errorf("bad shape error = %v, want %v", err, ErrInvalidShorthand)
	}
}

func TestNewPFN(t *testing.T) {
	if _, err := NewPFN("", "site"); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty url error = %v, want %v", err, ErrEmptyName)
	}

	p, err := NewPFN("http://site.com/f.a", "")
	if err != nil {
		t.Fatalf("NewPFN: %v", err)
	}
	if p.Site() != "local" {
		t.Errorf("Site = %q, want local", p.Site())
	}

	if err := p.AddProfile([3]string{"stat", "size", "42"}); err != nil {
		t.Fatalf("AddProfile: %v", err)
	}
	if len(p.Profiles()) != 1 {
		t.Errorf("profiles = %d, want 1", len(p.Profiles()))
	}
}
