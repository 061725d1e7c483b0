package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

// newInspectCmd creates the inspect command for summarizing DAX files.
func newInspectCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize the contents of a DAX file",
		Long: `Inspect prints the catalog entries, jobs and dependencies declared in
a DAX file. With --interactive the jobs open in a browsable list that
shows the argument line and file uses of each one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse jobs in an interactive list")

	return cmd
}

func runInspect(input string, interactive bool) error {
	a, err := readWorkflow(input)
	if err != nil {
		return err
	}

	if interactive {
		return browseNodes(a)
	}

	fmt.Print(summarize(a))
	return nil
}

// summarize renders a plain-text report of the workflow: catalog
// counts, one table row per node, and the dependency edges.
func summarize(a *dax.ADAG) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Workflow " + a.Name()))
	b.WriteString("\n")
	if a.Count() > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  part %d of %d", a.Index()+1, a.Count())))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	keyStyle := styleKey.Width(16)
	b.WriteString(StyleValue.Render("Catalog"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %d\n", keyStyle.Render("files"), len(a.Files())))
	b.WriteString(fmt.Sprintf("  %s %d\n", keyStyle.Render("executables"), len(a.Executables())))
	b.WriteString(fmt.Sprintf("  %s %d\n", keyStyle.Render("transformations"), len(a.Transformations())))
	b.WriteString("\n")

	b.WriteString(StyleValue.Render("Jobs"))
	b.WriteString("\n")
	b.WriteString(nodeTable(a.Nodes()))
	b.WriteString("\n")

	deps := a.Dependencies()
	if len(deps) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render("Dependencies"))
		b.WriteString("\n")
		for _, d := range deps {
			for _, pe := range d.Parents() {
				line := fmt.Sprintf("  %s %s %s", pe.Parent.ID(), iconArrow, d.Child().ID())
				if pe.EdgeLabel != "" {
					line += " " + StyleDim.Render("("+pe.EdgeLabel+")")
				}
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// nodeTable renders the node list as a bordered table.
func nodeTable(nodes []dax.Node) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := [][]string{}
	for _, n := range nodes {
		label := n.NodeLabel()
		if label == "" {
			label = "—"
		}
		rows = append(rows, []string{
			n.ID(),
			nodeKind(n),
			nodeTitle(n),
			label,
			fmt.Sprintf("%d", len(n.Uses())),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Kind", "Transformation", "Label", "Uses").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})

	return t.Render()
}
