package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/scaffold"
	"github.com/pioneerwiki/lineage/internal/utils"
)

// createNewCommand builds the new subcommand.
func createNewCommand() *cobra.Command {
	var entryCollection string = content.CollectionPeople
	var entryIdentifier string
	var contentRoot string = defaultRoot
	var forceEnabled bool

	newCommand := &cobra.Command{
		Use:     newUse,
		Short:   newShortDescription,
		Long:    fmt.Sprintf(newLongDescriptionFormat, strings.Join(graph.RecognizedLabels(), ", ")),
		Example: newUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			createdPath, createError := scaffold.CreateEntry(scaffold.Options{
				Root:       contentRoot,
				Collection: strings.ToLower(strings.TrimSpace(entryCollection)),
				Name:       strings.Join(arguments, " "),
				ID:         entryIdentifier,
				Force:      forceEnabled,
			})
			if createError != nil {
				return createError
			}
			fmt.Fprintf(command.OutOrStdout(), createdEntryMessageFormat, utils.RelativePathOrSelf(createdPath, defaultRoot))
			return nil
		},
	}

	newCommand.Flags().StringVar(&entryCollection, collectionFlagName, content.CollectionPeople, collectionFlagDescription)
	newCommand.Flags().StringVar(&entryIdentifier, identifierFlagName, "", identifierFlagDescription)
	newCommand.Flags().StringVar(&contentRoot, rootFlagName, defaultRoot, newRootFlagDescription)
	registerBooleanFlag(newCommand.Flags(), &forceEnabled, forceFlagName, false, forceFlagDescription)
	return newCommand
}
