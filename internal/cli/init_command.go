package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/config"
)

// createInitCommand builds the init subcommand.
func createInitCommand() *cobra.Command {
	var globalEnabled bool
	var forceEnabled bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalEnabled {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceEnabled,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Fprintf(command.OutOrStdout(), wroteConfigurationFormat, writtenPath)
			return nil
		},
	}

	registerBooleanFlag(initCommand.Flags(), &globalEnabled, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &forceEnabled, forceFlagName, false, forceFlagDescription)
	return initCommand
}
