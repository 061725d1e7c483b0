package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
	"github.com/zaiyan-alam/pegasus/pkg/dax/codec"
)

// readWorkflow decodes the workflow description stored at path.
func readWorkflow(path string) (*dax.ADAG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := codec.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// nopCloser wraps a writer with a no-op Close, so stdout can be handled
// like a file.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openOutput opens the output destination. An empty path means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// nodeKind names the concrete node type the way the DAX schema does.
func nodeKind(n dax.Node) string {
	switch n.(type) {
	case *dax.SubDAG:
		return "dag"
	case *dax.SubDAX:
		return "dax"
	default:
		return "job"
	}
}

// nodeTitle renders the full logical identity of a node. Jobs show
// their transformation identity, sub-workflows the file they run.
func nodeTitle(n dax.Node) string {
	j, ok := n.(*dax.Job)
	if !ok {
		return n.Name()
	}
	title := j.Name()
	if j.Namespace() != "" {
		title = j.Namespace() + "::" + title
	}
	if j.Version() != "" {
		title += ":" + j.Version()
	}
	return title
}
