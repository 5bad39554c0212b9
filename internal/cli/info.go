package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/dialect"
	"github.com/umlkit/umlkit/pkg/persist"
)

// newInfoCmd creates the info command for inspecting diagram files.
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Show a diagram's type, elements, and bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	d, err := persist.ReadFile(path)
	if err != nil {
		return err
	}

	v, err := dialect.ViewerFor(d)
	if err != nil {
		return err
	}

	printKeyValue("Type", d.TypeName())
	printKeyValue("Nodes", fmt.Sprintf("%d", len(d.AllNodes())))
	printKeyValue("Edges", fmt.Sprintf("%d", d.EdgeCount()))
	bounds := v.Bounds(d)
	printKeyValue("Bounds", fmt.Sprintf("%dx%d at (%d,%d)", bounds.Width, bounds.Height, bounds.X, bounds.Y))

	fmt.Println()
	for _, r := range d.Roots() {
		printElementTree(r, "")
	}
	for _, e := range d.Edges() {
		printInfo("%s %s %s", elementLabel(e.Start()), iconArrow, elementLabel(e.End()))
	}
	return nil
}

// printElementTree prints a node and its children as an indented tree.
func printElementTree(n *diagram.Node, indent string) {
	fmt.Println(indent + StyleValue.Render(elementLabel(n)) + " " + StyleDim.Render(n.Position().String()))
	for _, c := range n.Children() {
		printElementTree(c, indent+"  ")
	}
}

// elementLabel names a node by its name property when set, or its kind.
func elementLabel(n *diagram.Node) string {
	if p, ok := n.Properties().Get("name"); ok && p.Get() != "" {
		return fmt.Sprintf("%s %q", n.Kind(), p.Get())
	}
	return n.Kind().String()
}
