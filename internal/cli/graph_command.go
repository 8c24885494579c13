package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/output"
	"github.com/pioneerwiki/lineage/internal/services/clipboard"
	"github.com/pioneerwiki/lineage/internal/utils"
)

// graphOptions carries everything one graph run needs.
type graphOptions struct {
	Roots       []string
	CacheSize   int
	Format      string
	Kinds       []graph.EdgeKind
	OutputPath  string
	CopyEnabled bool
	CopyOnly    bool
	Writer      io.Writer
	ErrorWriter io.Writer
	Clipboard   clipboard.Copier
}

// createGraphCommand builds the graph subcommand.
func createGraphCommand() *cobra.Command {
	var outputFormat string = output.FormatJSON
	var edgeKindValues []string
	var outputPath string
	var copyEnabled bool

	graphCommand := &cobra.Command{
		Use:     graphUse,
		Aliases: []string{graphAlias},
		Short:   graphShortDescription,
		Long:    graphLongDescription,
		Example: graphUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfigurationForCommand(command)
			if configurationError != nil {
				return configurationError
			}
			resolvedFormat := strings.ToLower(outputFormat)
			if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Graph.Format != "" {
				resolvedFormat = strings.ToLower(applicationConfiguration.Graph.Format)
			}
			if !output.IsSupportedFormat(resolvedFormat) {
				return fmt.Errorf(invalidFormatMessage, resolvedFormat)
			}
			kindValues := edgeKindValues
			if !command.Flags().Changed(kindFlagName) && len(applicationConfiguration.Graph.Kinds) > 0 {
				kindValues = applicationConfiguration.Graph.Kinds
			}
			kinds, kindsError := parseEdgeKinds(kindValues)
			if kindsError != nil {
				return kindsError
			}
			resolvedOutputPath := outputPath
			if !command.Flags().Changed(outFlagName) && applicationConfiguration.Graph.Out != "" {
				resolvedOutputPath = applicationConfiguration.Graph.Out
			}
			resolvedCopy, copyOnly := resolveCopyBehaviour(command.Flags().Changed(copyFlagName), copyEnabled, applicationConfiguration.Graph.CopySettings())
			options := graphOptions{
				Roots:       resolveContentRoots(arguments, applicationConfiguration.Content.Roots),
				CacheSize:   resolvedCacheSize(applicationConfiguration.Content),
				Format:      resolvedFormat,
				Kinds:       kinds,
				OutputPath:  resolvedOutputPath,
				CopyEnabled: resolvedCopy,
				CopyOnly:    copyOnly,
				Writer:      command.OutOrStdout(),
				ErrorWriter: command.ErrOrStderr(),
				Clipboard:   clipboard.NewService(),
			}
			return runGraphCommand(commandContext(command), options)
		},
	}

	graphCommand.Flags().StringVar(&outputFormat, formatFlagName, output.FormatJSON, formatFlagDescription)
	graphCommand.Flags().StringArrayVar(&edgeKindValues, kindFlagName, nil, kindFlagDescription)
	graphCommand.Flags().StringVar(&outputPath, outFlagName, "", outFlagDescription)
	registerCopyFlag(graphCommand.Flags(), &copyEnabled)
	return graphCommand
}

// runGraphCommand assembles the full dataset and renders it, restricted to the
// requested edge kinds when any were given.
func runGraphCommand(parentContext context.Context, options graphOptions) error {
	corpus, _, loadError := loadCorpus(parentContext, options.Roots, options.CacheSize)
	if loadError != nil {
		return loadError
	}
	dataset, duplicates := content.Assemble(corpus)
	warnCorpusProblems(options.ErrorWriter, corpus, duplicates)
	if len(options.Kinds) > 0 {
		dataset = graph.Dataset{Nodes: dataset.Nodes, Edges: dataset.EdgesOfKind(options.Kinds...)}
	}
	rendered, renderError := renderDataset(dataset, options.Format)
	if renderError != nil {
		return renderError
	}
	emitError := emitRendered(emitOptions{
		Rendered:    rendered,
		Writer:      options.Writer,
		OutputPath:  options.OutputPath,
		CopyEnabled: options.CopyEnabled,
		CopyOnly:    options.CopyOnly,
		Clipboard:   options.Clipboard,
	})
	if emitError != nil {
		return emitError
	}
	if options.OutputPath != "" && options.Writer != nil {
		fmt.Fprintf(options.Writer, wroteGraphFormat, utils.RelativePathOrSelf(options.OutputPath, defaultRoot))
	}
	return nil
}

// renderDataset renders a graph dataset in the requested format.
func renderDataset(dataset graph.Dataset, format string) (string, error) {
	if format == output.FormatJSON {
		return output.RenderDatasetJSON(dataset)
	}
	return output.RenderDatasetRaw(dataset), nil
}
