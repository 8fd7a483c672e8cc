package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conga/pkg/cover"
	"github.com/matzehuels/conga/pkg/datasets"
	"github.com/matzehuels/conga/pkg/errors"
	"github.com/matzehuels/conga/pkg/graph"
	"github.com/matzehuels/conga/pkg/overlap"
	"github.com/matzehuels/conga/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags decomposeFlags
		demo  bool
	)

	cmd := &cobra.Command{
		Use:   "browse [FILE]",
		Short: "Explore every cover of a decomposition interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var g *graph.Graph
			switch {
			case demo:
				g = datasets.Zachary()
			case len(args) == 1:
				var err error
				if g, err = loadGraph(args[0]); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidInput, "browse needs a FILE or --demo")
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := flags.options(cmd, c.Config.Decompose)
			opts.Graph = g
			opts.Formats = []string{pipeline.FormatJSON}

			res, err := c.execute(ctx, runner, opts)
			if err != nil {
				return err
			}

			m, err := newHierarchyModel(res.Result)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&demo, "demo", false, "browse Zachary's karate club")
	return cmd
}

// =============================================================================
// hierarchyModel - Interactive cover browser
// =============================================================================

// hierarchyModel is the bubbletea model for stepping through the covers
// of one decomposition.
type hierarchyModel struct {
	Counts     []int
	Modularity map[int]float64
	Optimal    int
	Covers     map[int]cover.Cover
	Labels     []string

	Cursor int
	Offset int
	Height int
	// Expanded shows the communities of the selected count.
	Expanded bool
}

// newHierarchyModel evaluates res and places the cursor on the optimal count.
func newHierarchyModel(res *overlap.Result) (hierarchyModel, error) {
	q, err := res.Modularities()
	if err != nil {
		return hierarchyModel{}, err
	}
	optimal, err := res.OptimalCount()
	if err != nil {
		return hierarchyModel{}, err
	}

	counts := res.Counts()
	covers := make(map[int]cover.Cover, len(counts))
	for _, k := range counts {
		covers[k], _ = res.Cover(k)
	}

	g := res.Graph()
	labels := make([]string, g.VertexCount())
	for i := range labels {
		v, _ := g.Vertex(i)
		labels[i] = v.Label
	}

	m := hierarchyModel{
		Counts:     counts,
		Modularity: q,
		Optimal:    optimal,
		Covers:     covers,
		Labels:     labels,
		Height:     15,
	}
	for i, k := range counts {
		if k == optimal {
			m.Cursor = i
		}
	}
	m.scroll()
	return m, nil
}

func (m hierarchyModel) Init() tea.Cmd {
	return nil
}

func (m hierarchyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Counts)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Counts) - 1
		case "o":
			for i, k := range m.Counts {
				if k == m.Optimal {
					m.Cursor = i
				}
			}
		case "enter", " ":
			m.Expanded = !m.Expanded
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
		m.scroll()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *hierarchyModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Selected returns the cluster count under the cursor.
func (m hierarchyModel) Selected() int {
	if len(m.Counts) == 0 {
		return 0
	}
	return m.Counts[m.Cursor]
}

func (m hierarchyModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cover Hierarchy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: show communities  o: optimal  q: quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Counts))
	var rows [][]string
	for _, k := range m.Counts[m.Offset:end] {
		c := m.Covers[k]
		mark := ""
		if k == m.Optimal {
			mark = iconOptimal
		}
		rows = append(rows, []string{
			strconv.Itoa(k),
			fmt.Sprintf("%.4f", m.Modularity[k]),
			strconv.Itoa(len(c.Overlapping())),
			strconv.Itoa(largest(c)),
			mark,
		})
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers("CLUSTERS", "MODULARITY", "OVERLAP", "LARGEST", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			idx := m.Offset + row
			if idx >= len(m.Counts) {
				return base
			}
			switch {
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case m.Counts[idx] == m.Optimal:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorGray)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Counts))))
	b.WriteString("\n")

	if m.Expanded {
		b.WriteString("\n")
		b.WriteString(m.communities())
	}
	return b.String()
}

// communities lists the members of the selected cover, one community per line.
func (m hierarchyModel) communities() string {
	const maxMembers = 12

	var b strings.Builder
	for i, community := range m.Covers[m.Selected()] {
		names := make([]string, 0, min(len(community), maxMembers))
		for _, v := range community[:min(len(community), maxMembers)] {
			names = append(names, memberName(v, m.Labels))
		}
		line := strings.Join(names, " ")
		if extra := len(community) - maxMembers; extra > 0 {
			line += listDimStyle.Render(fmt.Sprintf(" +%d more", extra))
		}
		style := listNormalStyle
		if i%2 == 1 {
			style = listSelectedStyle
		}
		fmt.Fprintf(&b, "  %s %s\n", listDimStyle.Render(fmt.Sprintf("%3d", i)), style.Render(line))
	}
	return b.String()
}

func largest(c cover.Cover) int {
	n := 0
	for _, community := range c {
		n = max(n, len(community))
	}
	return n
}
