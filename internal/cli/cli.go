// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pioneerwiki/lineage/internal/config"
	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/services/clipboard"
	"github.com/pioneerwiki/lineage/internal/utils"
)

const (
	rootUse              = "lineage"
	rootShortDescription = "lineage command line interface"
	rootLongDescription = `lineage maintains the relationship graph behind a static encyclopedia of computing history.
It validates entry frontmatter, assembles the influence graph, extracts hop-bounded neighborhoods, and searches entries.
Use --format to select raw or json output and --version to print the application version.`

	versionFlagName        = "version"
	versionTemplate        = "lineage version: %s\n"
	versionFlagDescription = "display application version"

	validateUse   = "validate [roots...]"
	graphUse      = "graph [roots...]"
	neighborUse   = "neighborhood <entry-id>"
	searchUse     = "search <query...>"
	statsUse      = "stats [roots...]"
	newUse        = "new <name...>"
	initUse       = "init"
	validateAlias = "v"
	graphAlias    = "g"
	neighborAlias = "nb"
	searchAlias   = "s"

	validateShortDescription = "check entries for schema and link problems (" + validateAlias + ")"
	graphShortDescription    = "assemble and print the full relationship graph (" + graphAlias + ")"
	neighborShortDescription = "list every entry within a hop bound of a start entry (" + neighborAlias + ")"
	searchShortDescription   = "search entry names, aliases, and summaries (" + searchAlias + ")"
	statsShortDescription    = "summarize the content tree"
	newShortDescription      = "scaffold a new entry file"
	initShortDescription     = "write a default configuration file"

	// validateLongDescription provides detailed help for the validate command.
	validateLongDescription = `Check every entry beneath the content roots for schema violations,
broken relation targets, duplicate ids, and hygiene problems.
Use --strict to fail on warnings and --watch to re-run on file changes.`
	// validateUsageExample demonstrates validate command usage.
	validateUsageExample = `  # Validate the content tree in the current directory
  lineage validate

  # Fail on warnings and re-run on changes
  lineage validate --strict --watch notes`

	// graphLongDescription provides detailed help for the graph command.
	graphLongDescription = `Assemble the full node and edge dataset the static viewer loads.
Use --kind to restrict edges and --copy to place the payload on the clipboard.`
	// graphUsageExample demonstrates graph command usage.
	graphUsageExample = `  # Print the viewer payload
  lineage graph --format json

  # Influence edges only, copied to the clipboard
  lineage graph --kind influence --copy`

	// neighborLongDescription provides detailed help for the neighborhood command.
	neighborLongDescription = `List every entry reachable from a start entry within a number of hops,
following relations in both directions. Depth zero returns only the start entry.
Use --kind to restrict which edges are followed.`
	// neighborUsageExample demonstrates neighborhood command usage.
	neighborUsageExample = `  # Direct neighbors of Ada Lovelace
  lineage neighborhood ada-lovelace

  # Two hops over influence edges only, as raw text
  lineage nb ada-lovelace --depth 2 --kind influence --format raw`

	// searchLongDescription provides detailed help for the search command.
	searchLongDescription = `Search entry names, aliases, summaries, and tags.
Field queries such as collection:works or kind:person narrow the results.`
	// searchUsageExample demonstrates search command usage.
	searchUsageExample = `  # Find entries mentioning compilers
  lineage search compiler

  # Only works, at most three hits
  lineage search collection:works engine --limit 3`

	// statsUsageExample demonstrates stats command usage.
	statsUsageExample = `  # Summarize the content tree
  lineage stats

  # Include token counts for content budgeting
  lineage stats --tokens --model gpt-4o`

	// newLongDescriptionFormat provides detailed help for the new command.
	newLongDescriptionFormat = `Create a skeleton entry file under a collection directory.
The identifier defaults to a slug derived from the name.
Recognized relation labels: %s.`
	// newUsageExample demonstrates new command usage.
	newUsageExample = `  # Scaffold a person entry
  lineage new Grace Hopper

  # Scaffold a work with an explicit identifier
  lineage new --collection works --id plankalkuel Plankalkül`

	formatFlagName            = "format"
	formatFlagDescription     = "output format"
	strictFlagName            = "strict"
	strictFlagDescription     = "treat warnings as failures"
	watchFlagName             = "watch"
	watchFlagDescription      = "re-run validation when entries change"
	verboseFlagName           = "verbose"
	verboseFlagDescription    = "log watch activity at debug level"
	depthFlagName             = "depth"
	depthFlagDescription      = "maximum hops from the start entry"
	kindFlagName              = "kind"
	kindFlagDescription       = "restrict edges to a kind (repeatable)"
	outFlagName               = "out"
	outFlagDescription        = "write rendered output to a file instead of stdout"
	rootFlagName              = "root"
	rootFlagDescription       = "content root (repeatable)"
	newRootFlagDescription    = "content root the new entry is created under"
	limitFlagName             = "limit"
	limitFlagDescription      = "maximum number of hits"
	tokensFlagName            = "tokens"
	tokensFlagDescription     = "include token counts"
	modelFlagName             = "model"
	modelFlagDescription      = "tokenizer model to use for token counting"
	collectionFlagName        = "collection"
	collectionFlagDescription = "collection for the new entry"
	identifierFlagName        = "id"
	identifierFlagDescription = "identifier override for the new entry"
	forceFlagName             = "force"
	forceFlagDescription      = "replace an existing file"
	globalFlagName            = "global"
	globalFlagDescription     = "write the global configuration file"
	copyFlagName              = "copy"
	copyFlagDescription       = "copy rendered output to the clipboard"
	configFlagName            = "config"
	configFlagDescription     = "path to a configuration file"

	defaultRoot              = "."
	defaultNeighborhoodDepth = 1
	defaultCacheSize         = 512
	defaultTokenizerModel    = "gpt-4o"

	invalidFormatMessage         = "Invalid format value '%s'"
	invalidDepthMessage          = "depth must be zero or greater"
	invalidKindMessageFormat     = "invalid edge kind '%s'"
	invalidLimitMessage          = "limit must be at least one"
	warningSkipFileFormat        = "Warning: skipping %s: %v\n"
	warningDuplicateFormat       = "Warning: duplicate id '%s' in %s, keeping %s\n"
	warningUnknownStartFormat    = "Warning: no entry with id '%s'; the neighborhood contains only the id itself\n"
	clipboardServiceMissing      = "clipboard service is not available"
	clipboardCopyErrorFormat     = "copy to clipboard failed: %w"
	validationFailedMessage      = "validation failed"
	errorAbsolutePathFormat      = "abs failed for '%s': %w"
	errorRootMissingFormat       = "root '%s' does not exist"
	errorRootNotDirectoryFormat  = "root '%s' is not a directory"
	errorStatFormat              = "stat failed for '%s': %w"
	errorNoValidRoots            = "no valid content roots"
	errorWriteOutputFormat       = "write to '%s' failed: %w"
	createdEntryMessageFormat    = "created %s\n"
	wroteConfigurationFormat     = "wrote configuration to %s\n"
	wroteGraphFormat             = "wrote graph to %s\n"
	watchValidationMessageFormat = "validated at %s: %d errors, %d warnings"
	watchReloadFailedFormat      = "reload failed: %v"
	watchStartedMessageFormat    = "watching %d roots, debounce %s"
	defaultWatchDebounceInterval = 250 * time.Millisecond
)

// Execute runs the lineage application.
func Execute() error {
	rootCommand := createRootCommand()
	arguments := normalizeCopyFlagArguments(os.Args[1:])
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createValidateCommand(),
		createGraphCommand(),
		createNeighborhoodCommand(),
		createSearchCommand(),
		createStatsCommand(),
		createNewCommand(),
		createInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// loadConfigurationForCommand loads the layered application configuration,
// honoring an explicit --config path when one was provided.
func loadConfigurationForCommand(command *cobra.Command) (config.ApplicationConfiguration, error) {
	configurationPath, _ := command.Flags().GetString(configFlagName)
	return config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configurationPath})
}

// commandContext returns the command's context, falling back to Background.
func commandContext(command *cobra.Command) context.Context {
	if commandCtx := command.Context(); commandCtx != nil {
		return commandCtx
	}
	return context.Background()
}

// resolveContentRoots picks content roots with explicit arguments winning over
// configured roots and the working directory as the final fallback.
func resolveContentRoots(arguments []string, configuredRoots []string) []string {
	if len(arguments) > 0 {
		return arguments
	}
	if len(configuredRoots) > 0 {
		return configuredRoots
	}
	return []string{defaultRoot}
}

// resolveAndValidateRoots converts root paths to absolute form and validates
// that each names an existing directory.
func resolveAndValidateRoots(inputs []string) ([]string, error) {
	seen := make(map[string]struct{})
	var result []string
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, ok := seen[cleanPath]; ok {
			continue
		}
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorRootMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf(errorRootNotDirectoryFormat, inputPath)
		}
		seen[cleanPath] = struct{}{}
		result = append(result, cleanPath)
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoValidRoots)
	}
	return result, nil
}

// resolvedCacheSize returns the configured parse cache size or the default.
func resolvedCacheSize(configuration config.ContentConfiguration) int {
	if configuration.CacheSize != nil && *configuration.CacheSize >= 0 {
		return *configuration.CacheSize
	}
	return defaultCacheSize
}

// loadCorpus resolves roots and loads every entry beneath them.
func loadCorpus(parentContext context.Context, roots []string, cacheSize int) (*content.Corpus, []string, error) {
	resolvedRoots, rootsError := resolveAndValidateRoots(roots)
	if rootsError != nil {
		return nil, nil, rootsError
	}
	loader := content.NewLoader(cacheSize)
	corpus, loadError := loader.Load(parentContext, resolvedRoots)
	if loadError != nil {
		return nil, nil, loadError
	}
	return corpus, resolvedRoots, nil
}

// parseEdgeKinds validates the --kind values and converts them to edge kinds.
func parseEdgeKinds(values []string) ([]graph.EdgeKind, error) {
	normalizedValues := make([]string, 0, len(values))
	for _, value := range values {
		normalizedValues = append(normalizedValues, strings.ToLower(strings.TrimSpace(value)))
	}
	var kinds []graph.EdgeKind
	for _, value := range utils.DeduplicateStrings(normalizedValues) {
		switch graph.EdgeKind(value) {
		case graph.EdgeKindInfluence, graph.EdgeKindAffiliation:
			kinds = append(kinds, graph.EdgeKind(value))
		default:
			return nil, fmt.Errorf(invalidKindMessageFormat, value)
		}
	}
	return kinds, nil
}

// warnCorpusProblems reports unreadable files and duplicate identifiers on the
// error stream so rendered payloads stay clean.
func warnCorpusProblems(errorWriter io.Writer, corpus *content.Corpus, duplicates []content.DuplicateID) {
	if errorWriter == nil {
		return
	}
	for _, failure := range corpus.Failures {
		fmt.Fprintf(errorWriter, warningSkipFileFormat, failure.Path, failure.Cause)
	}
	for _, duplicate := range duplicates {
		fmt.Fprintf(errorWriter, warningDuplicateFormat, duplicate.ID, duplicate.Path, duplicate.FirstPath)
	}
}

// emitOptions bundles the destination of one rendered payload.
type emitOptions struct {
	Rendered    string
	Writer      io.Writer
	OutputPath  string
	CopyEnabled bool
	CopyOnly    bool
	Clipboard   clipboard.Copier
}

// emitRendered writes a rendered payload to the destination writer and, when
// requested, to an output file or the system clipboard. An output path and
// copy-only mode each suppress the writer.
func emitRendered(options emitOptions) error {
	payload := options.Rendered
	if !strings.HasSuffix(payload, "\n") {
		payload += "\n"
	}
	copyRequested := options.CopyEnabled || options.CopyOnly
	if copyRequested && options.Clipboard == nil {
		return errors.New(clipboardServiceMissing)
	}
	if options.OutputPath != "" {
		if writeError := os.WriteFile(options.OutputPath, []byte(payload), 0o644); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, options.OutputPath, writeError)
		}
	} else if !options.CopyOnly {
		outputWriter := options.Writer
		if outputWriter == nil {
			outputWriter = os.Stdout
		}
		if _, writeError := fmt.Fprint(outputWriter, payload); writeError != nil {
			return writeError
		}
	}
	if copyRequested {
		if copyError := options.Clipboard.Copy(payload); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}
	return nil
}

// resolveCopyBehaviour combines the --copy flag with configured copy settings.
// An explicit flag wins; otherwise the configuration decides.
func resolveCopyBehaviour(flagChanged bool, flagValue bool, settings config.CopySettings) (bool, bool) {
	copyEnabled := flagValue
	copyOnly := false
	if !flagChanged && settings.Copy != nil {
		copyEnabled = *settings.Copy
	}
	if settings.CopyOnly != nil && *settings.CopyOnly {
		copyOnly = true
		copyEnabled = true
	}
	return copyEnabled, copyOnly
}
