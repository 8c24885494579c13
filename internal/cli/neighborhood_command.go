package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/output"
	"github.com/pioneerwiki/lineage/internal/services/clipboard"
)

// neighborhoodOptions carries everything one neighborhood run needs.
type neighborhoodOptions struct {
	StartID     string
	Depth       int
	Roots       []string
	CacheSize   int
	Format      string
	Kinds       []graph.EdgeKind
	CopyEnabled bool
	CopyOnly    bool
	Writer      io.Writer
	ErrorWriter io.Writer
	Clipboard   clipboard.Copier
}

// createNeighborhoodCommand builds the neighborhood subcommand.
func createNeighborhoodCommand() *cobra.Command {
	var neighborhoodDepth int = defaultNeighborhoodDepth
	var outputFormat string = output.FormatJSON
	var edgeKindValues []string
	var contentRoots []string
	var copyEnabled bool

	neighborhoodCommand := &cobra.Command{
		Use:     neighborUse,
		Aliases: []string{neighborAlias},
		Short:   neighborShortDescription,
		Long:    neighborLongDescription,
		Example: neighborUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfigurationForCommand(command)
			if configurationError != nil {
				return configurationError
			}
			resolvedFormat := strings.ToLower(outputFormat)
			if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Neighborhood.Format != "" {
				resolvedFormat = strings.ToLower(applicationConfiguration.Neighborhood.Format)
			}
			if !output.IsSupportedFormat(resolvedFormat) {
				return fmt.Errorf(invalidFormatMessage, resolvedFormat)
			}
			depth := neighborhoodDepth
			if !command.Flags().Changed(depthFlagName) && applicationConfiguration.Neighborhood.Depth != nil {
				depth = *applicationConfiguration.Neighborhood.Depth
			}
			if depth < 0 {
				return errors.New(invalidDepthMessage)
			}
			kindValues := edgeKindValues
			if !command.Flags().Changed(kindFlagName) && len(applicationConfiguration.Neighborhood.Kinds) > 0 {
				kindValues = applicationConfiguration.Neighborhood.Kinds
			}
			kinds, kindsError := parseEdgeKinds(kindValues)
			if kindsError != nil {
				return kindsError
			}
			resolvedCopy, copyOnly := resolveCopyBehaviour(command.Flags().Changed(copyFlagName), copyEnabled, applicationConfiguration.Neighborhood.CopySettings())
			options := neighborhoodOptions{
				StartID:     arguments[0],
				Depth:       depth,
				Roots:       resolveContentRoots(contentRoots, applicationConfiguration.Content.Roots),
				CacheSize:   resolvedCacheSize(applicationConfiguration.Content),
				Format:      resolvedFormat,
				Kinds:       kinds,
				CopyEnabled: resolvedCopy,
				CopyOnly:    copyOnly,
				Writer:      command.OutOrStdout(),
				ErrorWriter: command.ErrOrStderr(),
				Clipboard:   clipboard.NewService(),
			}
			return runNeighborhoodCommand(commandContext(command), options)
		},
	}

	neighborhoodCommand.Flags().IntVar(&neighborhoodDepth, depthFlagName, defaultNeighborhoodDepth, depthFlagDescription)
	neighborhoodCommand.Flags().StringVar(&outputFormat, formatFlagName, output.FormatJSON, formatFlagDescription)
	neighborhoodCommand.Flags().StringArrayVar(&edgeKindValues, kindFlagName, nil, kindFlagDescription)
	neighborhoodCommand.Flags().StringArrayVar(&contentRoots, rootFlagName, nil, rootFlagDescription)
	registerCopyFlag(neighborhoodCommand.Flags(), &copyEnabled)
	return neighborhoodCommand
}

// runNeighborhoodCommand extracts the hop-bounded membership around the start
// entry and renders the induced subgraph. A start id without an entry still
// produces a payload; the id alone is its neighborhood at any depth.
func runNeighborhoodCommand(parentContext context.Context, options neighborhoodOptions) error {
	corpus, _, loadError := loadCorpus(parentContext, options.Roots, options.CacheSize)
	if loadError != nil {
		return loadError
	}
	dataset, duplicates := content.Assemble(corpus)
	warnCorpusProblems(options.ErrorWriter, corpus, duplicates)
	edges := dataset.Edges
	if len(options.Kinds) > 0 {
		edges = dataset.EdgesOfKind(options.Kinds...)
	}
	if _, known := dataset.NodeByID(options.StartID); !known && options.ErrorWriter != nil {
		fmt.Fprintf(options.ErrorWriter, warningUnknownStartFormat, options.StartID)
	}
	members := graph.Neighborhood(options.StartID, options.Depth, edges)
	induced := graph.Dataset{Nodes: dataset.Nodes, Edges: edges}.Induced(members)
	payload := output.NeighborhoodOutput{
		Start: options.StartID,
		Depth: options.Depth,
		IDs:   members.Sorted(),
		Nodes: induced.Nodes,
		Edges: induced.Edges,
	}
	rendered, renderError := renderNeighborhood(payload, options.Format)
	if renderError != nil {
		return renderError
	}
	return emitRendered(emitOptions{
		Rendered:    rendered,
		Writer:      options.Writer,
		CopyEnabled: options.CopyEnabled,
		CopyOnly:    options.CopyOnly,
		Clipboard:   options.Clipboard,
	})
}

// renderNeighborhood renders a neighborhood payload in the requested format.
func renderNeighborhood(payload output.NeighborhoodOutput, format string) (string, error) {
	if format == output.FormatJSON {
		return output.RenderNeighborhoodJSON(payload)
	}
	return output.RenderNeighborhoodRaw(payload), nil
}
