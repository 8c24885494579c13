package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/output"
	"github.com/pioneerwiki/lineage/internal/search"
)

// searchOptions carries everything one search run needs.
type searchOptions struct {
	Query       string
	Limit       int
	Roots       []string
	CacheSize   int
	Format      string
	Writer      io.Writer
	ErrorWriter io.Writer
}

// createSearchCommand builds the search subcommand.
func createSearchCommand() *cobra.Command {
	var resultLimit int = search.DefaultLimit
	var outputFormat string = output.FormatRaw
	var contentRoots []string

	searchCommand := &cobra.Command{
		Use:     searchUse,
		Aliases: []string{searchAlias},
		Short:   searchShortDescription,
		Long:    searchLongDescription,
		Example: searchUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfigurationForCommand(command)
			if configurationError != nil {
				return configurationError
			}
			resolvedFormat := strings.ToLower(outputFormat)
			if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Search.Format != "" {
				resolvedFormat = strings.ToLower(applicationConfiguration.Search.Format)
			}
			if !output.IsSupportedFormat(resolvedFormat) {
				return fmt.Errorf(invalidFormatMessage, resolvedFormat)
			}
			limit := resultLimit
			if !command.Flags().Changed(limitFlagName) && applicationConfiguration.Search.Limit != nil {
				limit = *applicationConfiguration.Search.Limit
			}
			if limit < 1 {
				return errors.New(invalidLimitMessage)
			}
			options := searchOptions{
				Query:       strings.Join(arguments, " "),
				Limit:       limit,
				Roots:       resolveContentRoots(contentRoots, applicationConfiguration.Content.Roots),
				CacheSize:   resolvedCacheSize(applicationConfiguration.Content),
				Format:      resolvedFormat,
				Writer:      command.OutOrStdout(),
				ErrorWriter: command.ErrOrStderr(),
			}
			return runSearchCommand(commandContext(command), options)
		},
	}

	searchCommand.Flags().IntVar(&resultLimit, limitFlagName, search.DefaultLimit, limitFlagDescription)
	searchCommand.Flags().StringVar(&outputFormat, formatFlagName, output.FormatRaw, formatFlagDescription)
	searchCommand.Flags().StringArrayVar(&contentRoots, rootFlagName, nil, rootFlagDescription)
	return searchCommand
}

// runSearchCommand indexes the corpus in memory and runs one query against it.
func runSearchCommand(parentContext context.Context, options searchOptions) error {
	corpus, _, loadError := loadCorpus(parentContext, options.Roots, options.CacheSize)
	if loadError != nil {
		return loadError
	}
	warnCorpusProblems(options.ErrorWriter, corpus, nil)
	searchIndex, indexError := search.NewIndex(corpus)
	if indexError != nil {
		return indexError
	}
	defer func() {
		_ = searchIndex.Close()
	}()
	hits, searchError := searchIndex.Search(parentContext, options.Query, options.Limit)
	if searchError != nil {
		return searchError
	}
	payload := output.SearchOutput{Query: options.Query, Hits: hits}
	rendered, renderError := renderSearch(payload, options.Format)
	if renderError != nil {
		return renderError
	}
	return emitRendered(emitOptions{Rendered: rendered, Writer: options.Writer})
}

// renderSearch renders a search payload in the requested format.
func renderSearch(payload output.SearchOutput, format string) (string, error) {
	if format == output.FormatJSON {
		return output.RenderSearchJSON(payload)
	}
	return output.RenderSearchRaw(payload), nil
}
