package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/output"
	"github.com/pioneerwiki/lineage/internal/tokenizer"
	"github.com/pioneerwiki/lineage/internal/utils"
)

// statsOptions carries everything one stats run needs.
type statsOptions struct {
	Roots         []string
	CacheSize     int
	Format        string
	TokensEnabled bool
	Model         string
	Writer        io.Writer
	ErrorWriter   io.Writer
}

// createStatsCommand builds the stats subcommand.
func createStatsCommand() *cobra.Command {
	var outputFormat string = output.FormatRaw
	var tokensEnabled bool
	var tokenizerModel string = defaultTokenizerModel

	statsCommand := &cobra.Command{
		Use:     statsUse,
		Short:   statsShortDescription,
		Example: statsUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfigurationForCommand(command)
			if configurationError != nil {
				return configurationError
			}
			resolvedFormat := strings.ToLower(outputFormat)
			if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Stats.Format != "" {
				resolvedFormat = strings.ToLower(applicationConfiguration.Stats.Format)
			}
			if !output.IsSupportedFormat(resolvedFormat) {
				return fmt.Errorf(invalidFormatMessage, resolvedFormat)
			}
			tokens := tokensEnabled
			if !command.Flags().Changed(tokensFlagName) && applicationConfiguration.Stats.Tokens.Enabled != nil {
				tokens = *applicationConfiguration.Stats.Tokens.Enabled
			}
			model := tokenizerModel
			if !command.Flags().Changed(modelFlagName) && applicationConfiguration.Stats.Tokens.Model != "" {
				model = applicationConfiguration.Stats.Tokens.Model
			}
			options := statsOptions{
				Roots:         resolveContentRoots(arguments, applicationConfiguration.Content.Roots),
				CacheSize:     resolvedCacheSize(applicationConfiguration.Content),
				Format:        resolvedFormat,
				TokensEnabled: tokens,
				Model:         model,
				Writer:        command.OutOrStdout(),
				ErrorWriter:   command.ErrOrStderr(),
			}
			return runStatsCommand(commandContext(command), options)
		},
	}

	statsCommand.Flags().StringVar(&outputFormat, formatFlagName, output.FormatRaw, formatFlagDescription)
	registerBooleanFlag(statsCommand.Flags(), &tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	statsCommand.Flags().StringVar(&tokenizerModel, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	return statsCommand
}

// runStatsCommand summarizes the loaded corpus and renders the summary.
func runStatsCommand(parentContext context.Context, options statsOptions) error {
	corpus, resolvedRoots, loadError := loadCorpus(parentContext, options.Roots, options.CacheSize)
	if loadError != nil {
		return loadError
	}
	dataset, duplicates := content.Assemble(corpus)
	warnCorpusProblems(options.ErrorWriter, corpus, duplicates)
	stats := buildStats(corpus, dataset, resolvedRoots)
	if options.TokensEnabled {
		tokenCount, resolvedModel, countError := countCorpusTokens(corpus, options.Model)
		if countError != nil {
			return countError
		}
		stats.TokenCount = tokenCount
		stats.TokenModel = resolvedModel
	}
	rendered, renderError := renderStats(stats, options.Format)
	if renderError != nil {
		return renderError
	}
	return emitRendered(emitOptions{Rendered: rendered, Writer: options.Writer})
}

// buildStats computes the corpus summary counts.
func buildStats(corpus *content.Corpus, dataset graph.Dataset, roots []string) output.StatsOutput {
	byCollection := make(map[string]int)
	var totalSizeBytes int64
	packCount := 0
	for _, entry := range corpus.Entries {
		byCollection[entry.Collection]++
		if entry.IsPack() {
			packCount++
		}
		if entryInfo, statError := os.Stat(entry.Path); statError == nil {
			totalSizeBytes += entryInfo.Size()
		}
	}
	edgesByKind := make(map[string]int)
	connected := make(map[string]struct{})
	for _, edge := range dataset.Edges {
		edgesByKind[string(edge.Kind)]++
		connected[edge.Source] = struct{}{}
		connected[edge.Target] = struct{}{}
	}
	orphanCount := 0
	for _, node := range dataset.Nodes {
		if _, participates := connected[node.ID]; !participates {
			orphanCount++
		}
	}
	return output.StatsOutput{
		Roots:          roots,
		EntryCount:     len(corpus.Entries),
		ByCollection:   byCollection,
		PackCount:      packCount,
		NodeCount:      len(dataset.Nodes),
		EdgeCount:      len(dataset.Edges),
		EdgesByKind:    edgesByKind,
		OrphanCount:    orphanCount,
		FailureCount:   len(corpus.Failures),
		TotalSizeBytes: totalSizeBytes,
		TotalSize:      utils.FormatFileSize(totalSizeBytes),
	}
}

// countCorpusTokens totals token estimates across all entry bodies. Bodies the
// tokenizer cannot count are skipped rather than failing the run.
func countCorpusTokens(corpus *content.Corpus, model string) (int, string, error) {
	counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		return 0, "", counterError
	}
	total := 0
	for _, entry := range corpus.Entries {
		result, countError := tokenizer.CountBytes(counter, []byte(entry.Body))
		if countError != nil {
			return 0, "", countError
		}
		if result.Counted {
			total += result.Tokens
		}
	}
	return total, resolvedModel, nil
}

// renderStats renders a stats payload in the requested format.
func renderStats(stats output.StatsOutput, format string) (string, error) {
	if format == output.FormatJSON {
		return output.RenderStatsJSON(stats)
	}
	return output.RenderStatsRaw(stats), nil
}
