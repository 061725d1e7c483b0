package codec

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

// DAX 3.2 schema coordinates, emitted on the adag element.
const (
	schemaNamespace = "http://pegasus.isi.edu/schema/DAX"
	schemaLocation  = "http://pegasus.isi.edu/schema/dax-3.2.xsd"
	schemaVersion   = "3.2"
)

// Write streams the workflow to w as a DAX document.
func Write(w io.Writer, a *dax.ADAG) error {
	return NewEncoder(w).Encode(a)
}

// Marshal returns the workflow as a DAX document.
func Marshal(a *dax.ADAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encoder writes DAX documents to an output stream.
type Encoder struct {
	w   *bufio.Writer
	err error

	// now stamps the header comment, swapped out in tests.
	now func() time.Time
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), now: time.Now}
}

// Encode writes the workflow to the stream as a single DAX document.
// Output is produced incrementally, section by section, so memory use
// does not grow with the size of the workflow beyond its entity model.
func (enc *Encoder) Encode(a *dax.ADAG) error {
	if a == nil {
		return fmt.Errorf("dax: encode: %w", dax.ErrNilNode)
	}

	enc.header()
	enc.openADAG(a)

	enc.raw("\n\t<!-- part 1: Replica catalog (may be empty) -->\n")
	for _, f := range a.Files() {
		enc.file(f, 1)
		enc.raw("\n")
	}
	for _, e := range a.Executables() {
		enc.executable(e, 1)
		enc.raw("\n")
	}

	enc.raw("\n\t<!-- part 2: Transformation catalog (may be empty) -->\n")
	for _, t := range a.Transformations() {
		enc.transformation(t, 1)
		enc.raw("\n")
	}

	enc.raw("\n\t<!-- part 3: Definition of all jobs/dags/daxes (at least one) -->\n")
	for _, n := range a.Nodes() {
		enc.node(n, 1)
		enc.raw("\n")
	}

	enc.raw("\n\t<!-- part 4: List of control-flow dependencies (may be empty) -->\n")
	for _, d := range a.Dependencies() {
		enc.dependency(d, 1)
		enc.raw("\n")
	}

	enc.raw("</adag>\n")

	if enc.err != nil {
		return fmt.Errorf("dax: encode: %w", enc.err)
	}
	if err := enc.w.Flush(); err != nil {
		return fmt.Errorf("dax: encode: %w", err)
	}
	return nil
}

func (enc *Encoder) raw(s string) {
	if enc.err == nil {
		_, enc.err = enc.w.WriteString(s)
	}
}

// attr writes a single XML attribute with an escaped value.
func (enc *Encoder) attr(name, value string) {
	enc.raw(" " + name + `="` + escape(value) + `"`)
}

func (enc *Encoder) header() {
	enc.raw(xml.Header)
	enc.raw("<!-- generated: " + enc.now().Format("2006-01-02 15:04:05") + " -->\n")
	enc.raw("<!-- generated by: " + escape(username()) + " -->\n")
	enc.raw("<!-- generator: pegasus -->\n")
}

func (enc *Encoder) openADAG(a *dax.ADAG) {
	enc.raw(`<adag xmlns="` + schemaNamespace +
		`" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="` +
		schemaNamespace + " " + schemaLocation + `" version="` + schemaVersion + `"`)
	enc.attr("name", a.Name())
	if a.Count() != 0 {
		enc.attr("count", strconv.Itoa(a.Count()))
	}
	if a.Index() != 0 {
		enc.attr("index", strconv.Itoa(a.Index()))
	}
	enc.raw(">\n")
}

func (enc *Encoder) file(f *dax.File, level int) {
	ind := indent(level)
	enc.raw(ind + "<file")
	enc.attr("name", f.Name())
	if f.Link() != "" {
		enc.attr("link", string(f.Link()))
	}
	if emptyEntry(f) {
		enc.raw("/>")
		return
	}
	enc.raw(">\n")
	enc.entryInner(f, level+1)
	enc.raw(ind + "</file>")
}

func (enc *Encoder) executable(e *dax.Executable, level int) {
	ind := indent(level)
	enc.raw(ind + "<executable")
	enc.attr("name", e.Name())
	if e.Namespace() != "" {
		enc.attr("namespace", e.Namespace())
	}
	if e.Version() != "" {
		enc.attr("version", e.Version())
	}
	if e.Arch() != "" {
		enc.attr("arch", string(e.Arch()))
	}
	if e.OS() != "" {
		enc.attr("os", string(e.OS()))
	}
	if e.OSRelease() != "" {
		enc.attr("osrelease", e.OSRelease())
	}
	if e.OSVersion() != "" {
		enc.attr("osversion", e.OSVersion())
	}
	if e.Glibc() != "" {
		enc.attr("glibc", e.Glibc())
	}
	if emptyEntry(e) {
		enc.raw("/>")
		return
	}
	enc.raw(">\n")
	enc.entryInner(e, level+1)
	enc.raw(ind + "</executable>")
}

// entryInner writes the annotations of a catalog entry: profiles, then
// metadata, then physical file names.
func (enc *Encoder) entryInner(e dax.Entry, level int) {
	ind := indent(level)
	for _, p := range e.Profiles() {
		enc.raw(ind)
		enc.profile(p)
		enc.raw("\n")
	}
	for _, m := range e.Metadata() {
		enc.raw(ind)
		enc.metadata(m)
		enc.raw("\n")
	}
	for _, p := range e.PFNs() {
		enc.pfn(p, level)
		enc.raw("\n")
	}
}

func (enc *Encoder) profile(p dax.Profile) {
	enc.raw("<profile")
	enc.attr("namespace", string(p.Namespace))
	enc.attr("key", p.Key)
	enc.raw(">" + escape(p.Value) + "</profile>")
}

func (enc *Encoder) metadata(m dax.Metadata) {
	enc.raw("<metadata")
	enc.attr("key", m.Key)
	enc.attr("type", m.Type)
	enc.raw(">" + escape(m.Value) + "</metadata>")
}

func (enc *Encoder) pfn(p *dax.PFN, level int) {
	ind := indent(level)
	enc.raw(ind + "<pfn")
	enc.attr("url", p.URL())
	enc.attr("site", p.Site())
	if len(p.Profiles()) == 0 {
		enc.raw("/>")
		return
	}
	enc.raw(">\n")
	for _, pr := range p.Profiles() {
		enc.raw(ind + "\t")
		enc.profile(pr)
		enc.raw("\n")
	}
	enc.raw(ind + "</pfn>")
}

func (enc *Encoder) transformation(t *dax.Transformation, level int) {
	ind := indent(level)
	enc.raw(ind + "<transformation")
	if t.Namespace() != "" {
		enc.attr("namespace", t.Namespace())
	}
	enc.attr("name", t.Name())
	if t.Version() != "" {
		enc.attr("version", t.Version())
	}
	if len(t.Metadata()) == 0 && len(t.Uses()) == 0 {
		enc.raw("/>")
		return
	}
	enc.raw(">\n")
	for _, m := range t.Metadata() {
		enc.raw(ind + "\t")
		enc.metadata(m)
		enc.raw("\n")
	}
	for _, u := range t.Uses() {
		enc.raw(ind + "\t")
		enc.uses(u)
		enc.raw("\n")
	}
	enc.raw(ind + "</transformation>")
}

func (enc *Encoder) node(n dax.Node, level int) {
	ind := indent(level)
	switch t := n.(type) {
	case *dax.Job:
		enc.raw(ind + "<job")
		enc.attr("id", t.ID())
		if t.Namespace() != "" {
			enc.attr("namespace", t.Namespace())
		}
		enc.attr("name", t.Name())
		if t.Version() != "" {
			enc.attr("version", t.Version())
		}
		if t.NodeLabel() != "" {
			enc.attr("node-label", t.NodeLabel())
		}
		enc.closeNode(n, "job", level)
	case *dax.SubDAG:
		enc.raw(ind + "<dag")
		enc.attr("id", t.ID())
		enc.attr("name", t.Name())
		if t.NodeLabel() != "" {
			enc.attr("node-label", t.NodeLabel())
		}
		enc.closeNode(n, "dag", level)
	case *dax.SubDAX:
		enc.raw(ind + "<dax")
		enc.attr("id", t.ID())
		enc.attr("name", t.Name())
		if t.NodeLabel() != "" {
			enc.attr("node-label", t.NodeLabel())
		}
		enc.closeNode(n, "dax", level)
	}
}

func (enc *Encoder) closeNode(n dax.Node, elem string, level int) {
	if emptyNode(n) {
		enc.raw("/>")
		return
	}
	enc.raw(">\n")
	enc.nodeInner(n, level+1)
	enc.raw(indent(level) + "</" + elem + ">")
}

// nodeInner writes the payload of a node. The relative order of
// arguments, profiles, stdio bindings, uses declarations and
// notifications is fixed and part of the document contract; metadata
// annotations sit between profiles and the stdio bindings.
func (enc *Encoder) nodeInner(n dax.Node, level int) {
	ind := indent(level)

	if args := n.Arguments(); len(args) > 0 {
		parts := make([]string, len(args))
		for i, arg := range args {
			if arg.File != nil {
				parts[i] = `<file name="` + escape(arg.File.Name()) + `"/>`
			} else {
				parts[i] = escape(quoteArg(arg.Literal))
			}
		}
		enc.raw(ind + "<argument>" + strings.Join(parts, " ") + "</argument>\n")
	}

	for _, p := range n.Profiles() {
		enc.raw(ind)
		enc.profile(p)
		enc.raw("\n")
	}
	for _, m := range n.Metadata() {
		enc.raw(ind)
		enc.metadata(m)
		enc.raw("\n")
	}

	if f := n.Stdin(); f != nil {
		enc.raw(ind + `<stdin name="` + escape(f.Name()) + `" link="input"/>` + "\n")
	}
	if f := n.Stdout(); f != nil {
		enc.raw(ind + `<stdout name="` + escape(f.Name()) + `" link="output"/>` + "\n")
	}
	if f := n.Stderr(); f != nil {
		enc.raw(ind + `<stderr name="` + escape(f.Name()) + `" link="output"/>` + "\n")
	}

	for _, u := range n.Uses() {
		enc.raw(ind)
		enc.uses(u)
		enc.raw("\n")
	}

	for _, iv := range n.Invocations() {
		enc.raw(ind + `<invoke when="` + escape(string(iv.When)) + `">` + escape(iv.What) + "</invoke>\n")
	}
}

// uses writes a uses declaration with the effective attribute values,
// merging job-level overrides with the referenced entry's defaults.
// Executable references additionally carry the entry's namespace and
// version plus the executable marker.
func (enc *Encoder) uses(u *dax.Use) {
	enc.raw("<uses")
	enc.attr("name", u.Entry().Name())
	if link := u.EffectiveLink(); link != "" {
		enc.attr("link", string(link))
	}
	if u.EffectiveOptional() {
		enc.attr("optional", "true")
	}
	if u.EffectiveRegister() {
		enc.attr("register", "true")
	}
	if transfer := u.EffectiveTransfer(); transfer != "" {
		enc.attr("transfer", string(transfer))
	}
	if e, ok := u.Entry().(*dax.Executable); ok {
		if e.Namespace() != "" {
			enc.attr("namespace", e.Namespace())
		}
		if e.Version() != "" {
			enc.attr("version", e.Version())
		}
		enc.attr("executable", "true")
	}
	enc.raw("/>")
}

func (enc *Encoder) dependency(d *dax.Dependency, level int) {
	ind := indent(level)
	enc.raw(ind + "<child")
	enc.attr("ref", d.Child().ID())
	enc.raw(">\n")
	for _, p := range d.Parents() {
		enc.raw(ind + "\t<parent")
		enc.attr("ref", p.Parent.ID())
		if p.EdgeLabel != "" {
			enc.attr("edge-label", p.EdgeLabel)
		}
		enc.raw("/>\n")
	}
	enc.raw(ind + "</child>")
}

func emptyEntry(e dax.Entry) bool {
	return len(e.Profiles()) == 0 && len(e.Metadata()) == 0 && len(e.PFNs()) == 0
}

func emptyNode(n dax.Node) bool {
	return len(n.Arguments()) == 0 &&
		len(n.Profiles()) == 0 &&
		len(n.Metadata()) == 0 &&
		n.Stdin() == nil && n.Stdout() == nil && n.Stderr() == nil &&
		len(n.Uses()) == 0 &&
		len(n.Invocations()) == 0
}

func indent(level int) string {
	return strings.Repeat("\t", level)
}

// escape makes s safe for use in XML character data and attribute
// values.
func escape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// quoteArg wraps a literal argument in double quotes when it contains
// whitespace or quoting characters, so the shell-style split applied
// on decode restores the original token boundaries.
func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\n'\"\\") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

// username names the invoking user for the header comment.
func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
