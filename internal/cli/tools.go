package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/tools"
)

// newToolsCmd creates the tools command for showing a dialect's tool
// palette. With --interactive the palette opens as a browsable list.
func newToolsCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "tools [type]",
		Short: "Show a diagram type's tool palette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := resolveType(args[0])
			if err != nil {
				return err
			}
			palette := tools.NewPalette(typ)
			if interactive {
				return runToolsInteractive(palette)
			}
			return runTools(palette)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the palette interactively")

	return cmd
}

func runTools(p *tools.Palette) error {
	fmt.Println(StyleTitle.Render(p.DiagramType().Name() + " palette"))
	fmt.Println()
	for _, tool := range p.Tools() {
		key := StyleDim.Render(fmt.Sprintf("%-10s", tool.Key()))
		fmt.Println("  " + key + " " + StyleValue.Render(tool.Name()))
	}
	return nil
}

func runToolsInteractive(p *tools.Palette) error {
	model := newPaletteModel(p)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("run palette browser: %w", err)
	}

	m := final.(paletteModel)
	if m.chosen == nil {
		return nil
	}
	tool := *m.chosen
	if tool.IsSelection() {
		printInfo("Selected the selection tool")
		return nil
	}
	printSuccess("Selected %s (%s)", tool.Name(), tool.Key())
	return nil
}

// paletteModel is the bubbletea model for interactive palette browsing.
type paletteModel struct {
	palette *tools.Palette
	chosen  *tools.Tool
}

func newPaletteModel(p *tools.Palette) paletteModel {
	return paletteModel{palette: p}
}

func (m paletteModel) Init() tea.Cmd {
	return nil
}

func (m paletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.palette.SelectPrevious()
		case "down", "j":
			m.palette.SelectNext()
		case "enter":
			tool := m.palette.SelectedTool()
			m.chosen = &tool
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m paletteModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.palette.DiagramType().Name() + " palette"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	selected := m.palette.SelectedIndex()
	for i, tool := range m.palette.Tools() {
		cursor := "  "
		if i == selected {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-10s %s", cursor, tool.Key(), tool.Name())
		if i == selected {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", selected+1, m.palette.Len())))
	return b.String()
}
