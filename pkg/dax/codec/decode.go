package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

// Read parses a DAX document from r.
func Read(r io.Reader) (*dax.ADAG, error) {
	return NewDecoder(r).Decode()
}

// Unmarshal parses a DAX document from data.
func Unmarshal(data []byte) (*dax.ADAG, error) {
	return Read(bytes.NewReader(data))
}

// Decoder reads a DAX document from an input stream.
type Decoder struct {
	d *xml.Decoder
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{d: xml.NewDecoder(r)}
}

// Decode parses one DAX document in a single pass over the token
// stream and returns the reconstructed workflow. It stops at the first
// structural error.
func (dec *Decoder) Decode() (*dax.ADAG, error) {
	p := &parser{
		dec:     dec.d,
		entries: make(map[string]dax.Entry),
		nodes:   make(map[string]dax.Node),
	}
	return p.run()
}

// frame is one open element on the parser stack. Each variant carries
// exactly the state needed to process the element's children and to
// commit it when the closing tag arrives.
type frame interface {
	element() string
}

type (
	adagFrame  struct{}
	entryFrame struct {
		elem  string // file | executable
		entry dax.Entry
	}
	transformationFrame struct{ t *dax.Transformation }
	nodeFrame           struct {
		elem string // job | dag | dax
		node dax.Node
	}
	argumentFrame struct {
		node dax.Node
		args []any
	}
	profileFrame struct {
		sink      profileSink
		namespace dax.Namespace
		key       string
		value     strings.Builder
	}
	metadataFrame struct {
		sink  metadataSink
		key   string
		typ   string
		value strings.Builder
	}
	pfnFrame   struct{ pfn *dax.PFN }
	stdioFrame struct{ elem string }
	usesFrame  struct{}
	invokeFrame struct {
		node dax.Node
		when dax.When
		what strings.Builder
	}
	childFrame  struct{ child dax.Node }
	parentFrame struct{}
)

func (*adagFrame) element() string           { return "adag" }
func (f *entryFrame) element() string        { return f.elem }
func (*transformationFrame) element() string { return "transformation" }
func (f *nodeFrame) element() string         { return f.elem }
func (*argumentFrame) element() string       { return "argument" }
func (*profileFrame) element() string        { return "profile" }
func (*metadataFrame) element() string       { return "metadata" }
func (*pfnFrame) element() string            { return "pfn" }
func (f *stdioFrame) element() string        { return f.elem }
func (*usesFrame) element() string           { return "uses" }
func (*invokeFrame) element() string         { return "invoke" }
func (*childFrame) element() string          { return "child" }
func (*parentFrame) element() string         { return "parent" }

// profileSink is anything a profile element can attach to: catalog
// entries, nodes and PFNs.
type profileSink interface{ AddProfile(v any) error }

// metadataSink is anything a metadata element can attach to: catalog
// entries, transformations and nodes.
type metadataSink interface{ AddMetadata(v any) error }

type parser struct {
	dec   *xml.Decoder
	adag  *dax.ADAG
	stack []frame

	// entries maps logical names to catalog entries; the first
	// definition of a name wins. nodes maps identifiers to nodes for
	// dependency resolution.
	entries map[string]dax.Entry
	nodes   map[string]dax.Node
}

func (p *parser) run() (*dax.ADAG, error) {
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dax: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.start(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if err := p.chars(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if err := p.end(); err != nil {
				return nil, err
			}
		}
	}
	if p.adag == nil {
		return nil, fmt.Errorf("dax: %w", ErrNoDocument)
	}
	return p.adag, nil
}

func (p *parser) push(f frame) { p.stack = append(p.stack, f) }

func (p *parser) pop() frame {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *parser) top() frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) topName() string {
	if f := p.top(); f != nil {
		return f.element()
	}
	return "document"
}

// wrap turns err into a DecodeError recording the element and the
// current input offset.
func (p *parser) wrap(elem string, err error) error {
	return &DecodeError{Element: elem, Offset: p.dec.InputOffset(), Err: err}
}

func (p *parser) unsupported(elem string) error {
	return p.wrap(elem, fmt.Errorf("under %q: %w", p.topName(), ErrUnsupportedContext))
}

func (p *parser) start(se xml.StartElement) error {
	switch elem := se.Name.Local; elem {
	case "adag":
		return p.startADAG(se)
	case "file":
		return p.startFile(se)
	case "executable":
		return p.startExecutable(se)
	case "transformation":
		return p.startTransformation(se)
	case "job", "dag", "dax":
		return p.startNode(elem, se)
	case "argument":
		return p.startArgument(se)
	case "profile":
		return p.startProfile(se)
	case "metadata":
		return p.startMetadata(se)
	case "pfn":
		return p.startPFN(se)
	case "stdin", "stdout", "stderr":
		return p.startStdio(elem, se)
	case "uses":
		return p.startUses(se)
	case "invoke":
		return p.startInvoke(se)
	case "child":
		return p.startChild(se)
	case "parent":
		return p.startParent(se)
	default:
		return p.wrap(elem, fmt.Errorf("%q: %w", elem, ErrUnrecognizedElement))
	}
}

func (p *parser) chars(data xml.CharData) error {
	switch f := p.top().(type) {
	case *argumentFrame:
		tokens, err := shlex.Split(string(data))
		if err != nil {
			return p.wrap("argument", fmt.Errorf("%w: %v", ErrMalformedArgument, err))
		}
		for _, t := range tokens {
			f.args = append(f.args, t)
		}
	case *profileFrame:
		f.value.Write(data)
	case *metadataFrame:
		f.value.Write(data)
	case *invokeFrame:
		f.what.Write(data)
	}
	return nil
}

// end pops the innermost frame and commits elements whose payload only
// becomes complete once their character data has been seen.
func (p *parser) end() error {
	switch f := p.pop().(type) {
	case *argumentFrame:
		if err := f.node.AddArguments(f.args...); err != nil {
			return p.wrap("argument", err)
		}
	case *profileFrame:
		pr := dax.Profile{Namespace: f.namespace, Key: f.key, Value: f.value.String()}
		if err := f.sink.AddProfile(pr); err != nil {
			return p.wrap("profile", err)
		}
	case *metadataFrame:
		m := dax.Metadata{Key: f.key, Type: f.typ, Value: f.value.String()}
		if err := f.sink.AddMetadata(m); err != nil {
			return p.wrap("metadata", err)
		}
	case *invokeFrame:
		if err := f.node.Invoke(f.when, f.what.String()); err != nil {
			return p.wrap("invoke", err)
		}
	}
	return nil
}

func (p *parser) startADAG(se xml.StartElement) error {
	if len(p.stack) != 0 || p.adag != nil {
		return p.unsupported("adag")
	}
	attrs := dax.ADAGAttrs{}
	if v, ok := attr(se, "count"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p.wrap("adag", fmt.Errorf("count %q: %w", v, dax.ErrInvalidAttribute))
		}
		attrs.Count = n
	}
	if v, ok := attr(se, "index"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p.wrap("adag", fmt.Errorf("index %q: %w", v, dax.ErrInvalidAttribute))
		}
		attrs.Index = n
	}
	name, _ := attr(se, "name")
	a, err := dax.NewADAG(name, attrs)
	if err != nil {
		return p.wrap("adag", err)
	}
	p.adag = a
	p.push(&adagFrame{})
	return nil
}

func (p *parser) startFile(se xml.StartElement) error {
	name, _ := attr(se, "name")
	var f *dax.File
	if e, ok := p.entries[name]; ok {
		f, ok = e.(*dax.File)
		if !ok {
			return p.wrap("file", fmt.Errorf("name %q already declared as an executable: %w", name, ErrUnknownReference))
		}
	} else {
		attrs := dax.EntryAttrs{}
		if v, ok := attr(se, "link"); ok {
			link, err := dax.ParseLink(v)
			if err != nil {
				return p.wrap("file", err)
			}
			attrs.Link = link
		}
		var err error
		f, err = dax.NewFile(name, attrs)
		if err != nil {
			return p.wrap("file", err)
		}
		p.entries[name] = f
	}

	switch parent := p.top().(type) {
	case *adagFrame:
		if err := p.adag.AddFile(f); err != nil {
			return p.wrap("file", err)
		}
	case *argumentFrame:
		parent.args = append(parent.args, f)
	default:
		return p.unsupported("file")
	}
	p.push(&entryFrame{elem: "file", entry: f})
	return nil
}

func (p *parser) startExecutable(se xml.StartElement) error {
	if _, ok := p.top().(*adagFrame); !ok {
		return p.unsupported("executable")
	}
	name, _ := attr(se, "name")
	var e *dax.Executable
	if existing, ok := p.entries[name]; ok {
		e, ok = existing.(*dax.Executable)
		if !ok {
			return p.wrap("executable", fmt.Errorf("name %q already declared as a file: %w", name, ErrUnknownReference))
		}
	} else {
		attrs := dax.ExecutableAttrs{
			Namespace: attrOr(se, "namespace"),
			Version:   attrOr(se, "version"),
			OSRelease: attrOr(se, "osrelease"),
			OSVersion: attrOr(se, "osversion"),
			Glibc:     attrOr(se, "glibc"),
		}
		if v, ok := attr(se, "arch"); ok {
			arch, err := dax.ParseArch(v)
			if err != nil {
				return p.wrap("executable", err)
			}
			attrs.Arch = arch
		}
		if v, ok := attr(se, "os"); ok {
			osType, err := dax.ParseOS(v)
			if err != nil {
				return p.wrap("executable", err)
			}
			attrs.OS = osType
		}
		var err error
		e, err = dax.NewExecutable(name, attrs)
		if err != nil {
			return p.wrap("executable", err)
		}
		p.entries[name] = e
	}
	if err := p.adag.AddExecutable(e); err != nil {
		return p.wrap("executable", err)
	}
	p.push(&entryFrame{elem: "executable", entry: e})
	return nil
}

func (p *parser) startTransformation(se xml.StartElement) error {
	if _, ok := p.top().(*adagFrame); !ok {
		return p.unsupported("transformation")
	}
	name, _ := attr(se, "name")
	t, err := dax.NewTransformation(name, dax.TransformationAttrs{
		Namespace: attrOr(se, "namespace"),
		Version:   attrOr(se, "version"),
	})
	if err != nil {
		return p.wrap("transformation", err)
	}
	if err := p.adag.AddTransformation(t); err != nil {
		return p.wrap("transformation", err)
	}
	p.push(&transformationFrame{t: t})
	return nil
}

func (p *parser) startNode(elem string, se xml.StartElement) error {
	if _, ok := p.top().(*adagFrame); !ok {
		return p.unsupported(elem)
	}
	name, _ := attr(se, "name")
	id := attrOr(se, "id")
	label := attrOr(se, "node-label")

	var (
		node dax.Node
		err  error
	)
	switch elem {
	case "job":
		node, err = dax.NewJob(name, dax.JobAttrs{
			ID:        id,
			Namespace: attrOr(se, "namespace"),
			Version:   attrOr(se, "version"),
			NodeLabel: label,
		})
	case "dag":
		node, err = dax.NewSubDAG(name, dax.NodeAttrs{ID: id, NodeLabel: label})
	case "dax":
		node, err = dax.NewSubDAX(name, dax.NodeAttrs{ID: id, NodeLabel: label})
	}
	if err != nil {
		return p.wrap(elem, err)
	}
	if err := p.adag.AddJob(node); err != nil {
		return p.wrap(elem, err)
	}
	p.nodes[node.ID()] = node
	p.push(&nodeFrame{elem: elem, node: node})
	return nil
}

func (p *parser) startArgument(se xml.StartElement) error {
	parent, ok := p.top().(*nodeFrame)
	if !ok {
		return p.unsupported("argument")
	}
	p.push(&argumentFrame{node: parent.node})
	return nil
}

func (p *parser) startProfile(se xml.StartElement) error {
	var sink profileSink
	switch parent := p.top().(type) {
	case *nodeFrame:
		sink = parent.node
	case *entryFrame:
		sink = parent.entry
	case *pfnFrame:
		sink = parent.pfn
	default:
		return p.unsupported("profile")
	}
	ns, err := dax.ParseNamespace(attrOr(se, "namespace"))
	if err != nil {
		return p.wrap("profile", err)
	}
	key, _ := attr(se, "key")
	if key == "" {
		return p.wrap("profile", fmt.Errorf("key: %w", dax.ErrEmptyName))
	}
	p.push(&profileFrame{sink: sink, namespace: ns, key: key})
	return nil
}

func (p *parser) startMetadata(se xml.StartElement) error {
	var sink metadataSink
	switch parent := p.top().(type) {
	case *entryFrame:
		sink = parent.entry
	case *transformationFrame:
		sink = parent.t
	case *nodeFrame:
		sink = parent.node
	default:
		return p.unsupported("metadata")
	}
	key, _ := attr(se, "key")
	if key == "" {
		return p.wrap("metadata", fmt.Errorf("key: %w", dax.ErrEmptyName))
	}
	p.push(&metadataFrame{sink: sink, key: key, typ: attrOr(se, "type")})
	return nil
}

func (p *parser) startPFN(se xml.StartElement) error {
	parent, ok := p.top().(*entryFrame)
	if !ok {
		return p.unsupported("pfn")
	}
	pfn, err := dax.NewPFN(attrOr(se, "url"), attrOr(se, "site"))
	if err != nil {
		return p.wrap("pfn", err)
	}
	if err := parent.entry.AddPFN(pfn); err != nil {
		return p.wrap("pfn", err)
	}
	p.push(&pfnFrame{pfn: pfn})
	return nil
}

func (p *parser) startStdio(elem string, se xml.StartElement) error {
	parent, ok := p.top().(*nodeFrame)
	if !ok {
		return p.unsupported(elem)
	}
	attrs := dax.EntryAttrs{}
	if v, ok := attr(se, "link"); ok {
		link, err := dax.ParseLink(v)
		if err != nil {
			return p.wrap(elem, err)
		}
		attrs.Link = link
	}
	name, _ := attr(se, "name")
	f, err := dax.NewFile(name, attrs)
	if err != nil {
		return p.wrap(elem, err)
	}
	switch elem {
	case "stdin":
		parent.node.SetStdin(f)
	case "stdout":
		parent.node.SetStdout(f)
	case "stderr":
		parent.node.SetStderr(f)
	}
	p.push(&stdioFrame{elem: elem})
	return nil
}

func (p *parser) startUses(se xml.StartElement) error {
	name, _ := attr(se, "name")
	overrides := dax.UseAttrs{}
	entryAttrs := dax.EntryAttrs{}
	if v, ok := attr(se, "link"); ok {
		link, err := dax.ParseLink(v)
		if err != nil {
			return p.wrap("uses", err)
		}
		overrides.Link = link
		entryAttrs.Link = link
	}
	if v, ok := attr(se, "register"); ok {
		b, err := parseBool(v)
		if err != nil {
			return p.wrap("uses", err)
		}
		overrides.Register = dax.Bool(b)
		entryAttrs.Register = b
	}
	if v, ok := attr(se, "transfer"); ok {
		transfer, err := dax.ParseTransfer(v)
		if err != nil {
			return p.wrap("uses", err)
		}
		overrides.Transfer = transfer
		entryAttrs.Transfer = transfer
	}
	if v, ok := attr(se, "optional"); ok {
		b, err := parseBool(v)
		if err != nil {
			return p.wrap("uses", err)
		}
		overrides.Optional = dax.Bool(b)
	}
	isExecutable := false
	if v, ok := attr(se, "executable"); ok {
		b, err := parseBool(v)
		if err != nil {
			return p.wrap("uses", err)
		}
		isExecutable = b
	}

	entry, ok := p.entries[name]
	if !ok {
		var err error
		if isExecutable {
			entry, err = dax.NewExecutable(name, dax.ExecutableAttrs{
				EntryAttrs: entryAttrs,
				Namespace:  attrOr(se, "namespace"),
				Version:    attrOr(se, "version"),
			})
		} else {
			entry, err = dax.NewFile(name, entryAttrs)
		}
		if err != nil {
			return p.wrap("uses", err)
		}
		p.entries[name] = entry
	}

	switch parent := p.top().(type) {
	case *nodeFrame:
		if err := parent.node.AddUses(entry, overrides); err != nil {
			return p.wrap("uses", err)
		}
	case *transformationFrame:
		if err := parent.t.AddUses(entry, overrides); err != nil {
			return p.wrap("uses", err)
		}
	default:
		return p.unsupported("uses")
	}
	p.push(&usesFrame{})
	return nil
}

func (p *parser) startInvoke(se xml.StartElement) error {
	parent, ok := p.top().(*nodeFrame)
	if !ok {
		return p.unsupported("invoke")
	}
	when, err := dax.ParseWhen(attrOr(se, "when"))
	if err != nil {
		return p.wrap("invoke", err)
	}
	p.push(&invokeFrame{node: parent.node, when: when})
	return nil
}

func (p *parser) startChild(se xml.StartElement) error {
	if _, ok := p.top().(*adagFrame); !ok {
		return p.unsupported("child")
	}
	ref, _ := attr(se, "ref")
	node, ok := p.nodes[ref]
	if !ok {
		return p.wrap("child", fmt.Errorf("node %q: %w", ref, ErrUnknownReference))
	}
	p.push(&childFrame{child: node})
	return nil
}

func (p *parser) startParent(se xml.StartElement) error {
	parent, ok := p.top().(*childFrame)
	if !ok {
		return p.unsupported("parent")
	}
	ref, _ := attr(se, "ref")
	node, ok := p.nodes[ref]
	if !ok {
		return p.wrap("parent", fmt.Errorf("node %q: %w", ref, ErrUnknownReference))
	}
	err := p.adag.AddDependency(node, parent.child, attrOr(se, "edge-label"))
	if err != nil {
		return p.wrap("parent", err)
	}
	p.push(&parentFrame{})
	return nil
}

// attr returns the value of the named attribute and whether it was
// present. Namespace prefixes on attribute names are ignored.
func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrOr returns the value of the named attribute, or "" if absent.
func attrOr(se xml.StartElement, name string) string {
	v, _ := attr(se, name)
	return v
}

// parseBool parses the lowercase boolean attribute values used by the
// DAX dialect.
func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("boolean attribute %q: %w", s, dax.ErrInvalidAttribute)
}
