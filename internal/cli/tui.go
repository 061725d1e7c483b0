package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zaiyan-alam/pegasus/pkg/dax"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeBrowserModel - Interactive job browsing
// =============================================================================

// NodeBrowserModel is the bubbletea model for browsing the nodes of a
// workflow. The list view shows one row per node; selecting a row opens
// a detail view with the argument line and file uses.
type NodeBrowserModel struct {
	Workflow *dax.ADAG
	Nodes    []dax.Node
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
}

// NewNodeBrowserModel creates a new node browser model.
func NewNodeBrowserModel(a *dax.ADAG) NodeBrowserModel {
	return NodeBrowserModel{
		Workflow: a,
		Nodes:    a.Nodes(),
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Nodes) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m NodeBrowserModel) View() string {
	if m.Detail {
		return m.detailView()
	}
	return m.listView()
}

func (m NodeBrowserModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Workflow " + m.Workflow.Name()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Nodes) {
		end = len(m.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		label := n.NodeLabel()
		if label == "" {
			label = "—"
		}

		rows = append(rows, []string{
			cursor,
			n.ID(),
			nodeKind(n),
			nodeTitle(n),
			label,
			fmt.Sprintf("%d", len(n.Uses())),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Kind", "Transformation", "Label", "Uses").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

func (m NodeBrowserModel) detailView() string {
	n := m.Nodes[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(n.ID() + "  " + nodeTitle(n)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	keyStyle := styleKey.Width(10)
	b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("kind"), nodeKind(n)))
	if n.NodeLabel() != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("label"), n.NodeLabel()))
	}
	if args := argumentLine(n); args != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("args"), StyleValue.Render(args)))
	}
	if n.Stdin() != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("stdin"), n.Stdin().Name()))
	}
	if n.Stdout() != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("stdout"), n.Stdout().Name()))
	}
	if n.Stderr() != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("stderr"), n.Stderr().Name()))
	}

	if uses := n.Uses(); len(uses) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render("  Uses"))
		b.WriteString("\n")
		for _, u := range uses {
			b.WriteString("  " + useLine(u) + "\n")
		}
	}

	return b.String()
}

// useLine formats one file use as "name  link  [transfer] [register]".
func useLine(u *dax.Use) string {
	line := fmt.Sprintf("%-24s %s", u.Entry().Name(), u.EffectiveLink())
	if u.EffectiveTransfer() == dax.TransferTrue {
		line += listDimStyle.Render("  transfer")
	}
	if u.EffectiveRegister() {
		line += listDimStyle.Render("  register")
	}
	return line
}

// argumentLine joins the node's argument tokens into one display line.
// File references are shown by their logical name.
func argumentLine(n dax.Node) string {
	parts := make([]string, 0, len(n.Arguments()))
	for _, arg := range n.Arguments() {
		if arg.File != nil {
			parts = append(parts, arg.File.Name())
			continue
		}
		parts = append(parts, arg.Literal)
	}
	return strings.Join(parts, " ")
}

// browseNodes runs the interactive node browser until the user quits.
func browseNodes(a *dax.ADAG) error {
	p := tea.NewProgram(NewNodeBrowserModel(a))
	_, err := p.Run()
	return err
}
