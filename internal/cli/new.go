package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/dialect"
	"github.com/umlkit/umlkit/pkg/persist"
)

// newNewCmd creates the new command for creating empty diagram files.
//
// The diagram type can be given either by its full name (ClassDiagram) or by
// its file extension (class). The output path defaults to <name>.<ext>.json.
func newNewCmd() *cobra.Command {
	var (
		typeName string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, args[0], typeName, output)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "class", "diagram type: "+strings.Join(typeNames(), ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.<type>.json)")

	return cmd
}

// typeNames lists the accepted values for --type.
func typeNames() []string {
	var out []string
	for _, t := range dialect.All() {
		out = append(out, t.FileExtension())
	}
	return out
}

// resolveType accepts either a dialect name or a file extension.
func resolveType(s string) (*dialect.Type, error) {
	if t, err := dialect.ByName(s); err == nil {
		return t, nil
	}
	return dialect.ByFileExtension(s)
}

func runNew(cmd *cobra.Command, name, typeName, output string) error {
	logger := loggerFromContext(cmd.Context())

	typ, err := resolveType(typeName)
	if err != nil {
		return err
	}

	if output == "" {
		output = fmt.Sprintf("%s.%s.json", name, typ.FileExtension())
	}

	d := typ.NewDiagram()
	if err := persist.WriteFile(d, output); err != nil {
		return err
	}

	logger.Debugf("Created %s diagram", typ.Name())
	printSuccess("Created %s diagram %q", typ.Name(), name)
	printFile(output)
	return nil
}
