package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns the batchz command tree.
func NewRootCommand() *cobra.Command {
	command := &cobra.Command{
		Use:           "batchz",
		Short:         "Event batching walkthroughs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	command.AddCommand(NewDemoCommand())
	command.AddCommand(NewListCommand())
	return command
}
