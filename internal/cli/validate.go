package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/persist"
)

// newValidateCmd creates the validate command. Loading a diagram file
// replays it through its dialect's builder, so every structural rule is
// checked in the process; a file that loads is a valid diagram.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check diagram files against their dialect's structural rules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, paths []string) error {
	logger := loggerFromContext(cmd.Context())

	failed := 0
	for _, path := range paths {
		d, err := persist.ReadFile(path)
		if err != nil {
			failed++
			printError("%s: %s", path, errors.UserMessage(err))
			logger.Debugf("%s: %v", path, err)
			continue
		}
		printSuccess("%s (%s)", path, d.TypeName())
		printStats(len(d.AllNodes()), d.EdgeCount())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(paths))
	}
	return nil
}
