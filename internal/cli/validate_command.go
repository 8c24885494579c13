package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pioneerwiki/lineage/internal/config"
	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/output"
	"github.com/pioneerwiki/lineage/internal/utils"
	"github.com/pioneerwiki/lineage/internal/validate"
	"github.com/pioneerwiki/lineage/internal/watch"
)

// validateOptions carries everything one validation run needs.
type validateOptions struct {
	Roots     []string
	CacheSize int
	Format    string
	Strict    bool
	Debounce  time.Duration
	Verbose   bool
	Writer    io.Writer
}

// createValidateCommand builds the validate subcommand.
func createValidateCommand() *cobra.Command {
	var outputFormat string = output.FormatRaw
	var strictEnabled bool
	var watchEnabled bool
	var verboseEnabled bool

	validateCommand := &cobra.Command{
		Use:     validateUse,
		Aliases: []string{validateAlias},
		Short:   validateShortDescription,
		Long:    validateLongDescription,
		Example: validateUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			applicationConfiguration, configurationError := loadConfigurationForCommand(command)
			if configurationError != nil {
				return configurationError
			}
			resolvedFormat := strings.ToLower(outputFormat)
			if !command.Flags().Changed(formatFlagName) && applicationConfiguration.Validate.Format != "" {
				resolvedFormat = strings.ToLower(applicationConfiguration.Validate.Format)
			}
			if !output.IsSupportedFormat(resolvedFormat) {
				return fmt.Errorf(invalidFormatMessage, resolvedFormat)
			}
			strict := strictEnabled
			if !command.Flags().Changed(strictFlagName) && applicationConfiguration.Validate.Strict != nil {
				strict = *applicationConfiguration.Validate.Strict
			}
			options := validateOptions{
				Roots:     resolveContentRoots(arguments, applicationConfiguration.Content.Roots),
				CacheSize: resolvedCacheSize(applicationConfiguration.Content),
				Format:    resolvedFormat,
				Strict:    strict,
				Debounce:  resolvedWatchDebounce(applicationConfiguration.Validate),
				Verbose:   verboseEnabled,
				Writer:    command.OutOrStdout(),
			}
			if watchEnabled {
				return runValidateWatch(commandContext(command), options)
			}
			return runValidateCommand(commandContext(command), options)
		},
	}

	validateCommand.Flags().StringVar(&outputFormat, formatFlagName, output.FormatRaw, formatFlagDescription)
	registerBooleanFlag(validateCommand.Flags(), &strictEnabled, strictFlagName, false, strictFlagDescription)
	registerBooleanFlag(validateCommand.Flags(), &watchEnabled, watchFlagName, false, watchFlagDescription)
	registerBooleanFlag(validateCommand.Flags(), &verboseEnabled, verboseFlagName, false, verboseFlagDescription)
	return validateCommand
}

// resolvedWatchDebounce converts the configured debounce to a duration.
func resolvedWatchDebounce(configuration config.ValidateConfiguration) time.Duration {
	if configuration.WatchDebounceMilliseconds != nil && *configuration.WatchDebounceMilliseconds > 0 {
		return time.Duration(*configuration.WatchDebounceMilliseconds) * time.Millisecond
	}
	return defaultWatchDebounceInterval
}

// runValidateCommand loads the corpus, checks it, and renders the report. A
// failed report surfaces as an error so the process exits non-zero.
func runValidateCommand(parentContext context.Context, options validateOptions) error {
	corpus, _, loadError := loadCorpus(parentContext, options.Roots, options.CacheSize)
	if loadError != nil {
		return loadError
	}
	corpusValidator, validatorError := validate.New()
	if validatorError != nil {
		return validatorError
	}
	report := corpusValidator.Check(corpus)
	rendered, renderError := renderReport(report, options.Format)
	if renderError != nil {
		return renderError
	}
	if emitError := emitRendered(emitOptions{Rendered: rendered, Writer: options.Writer}); emitError != nil {
		return emitError
	}
	if report.Failed(options.Strict) {
		return errors.New(validationFailedMessage)
	}
	return nil
}

// runValidateWatch validates once, then re-runs whenever entries beneath the
// roots change. Interrupt or termination signals end the loop cleanly.
func runValidateWatch(parentContext context.Context, options validateOptions) error {
	resolvedRoots, rootsError := resolveAndValidateRoots(options.Roots)
	if rootsError != nil {
		return rootsError
	}
	corpusValidator, validatorError := validate.New()
	if validatorError != nil {
		return validatorError
	}
	watchLogger, loggerError := watchLoggerFor(options.Verbose)
	if loggerError != nil {
		return loggerError
	}
	defer func() {
		_ = watchLogger.Sync()
	}()

	signalContext, stopSignals := signal.NotifyContext(parentContext, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	loader := content.NewLoader(options.CacheSize)
	runValidation := func() {
		corpus, reloadError := loader.Load(signalContext, resolvedRoots)
		if reloadError != nil {
			watchLogger.Error(fmt.Sprintf(watchReloadFailedFormat, reloadError))
			return
		}
		report := corpusValidator.Check(corpus)
		rendered, renderError := renderReport(report, options.Format)
		if renderError != nil {
			watchLogger.Error(fmt.Sprintf(watchReloadFailedFormat, renderError))
			return
		}
		if emitError := emitRendered(emitOptions{Rendered: rendered, Writer: options.Writer}); emitError != nil {
			watchLogger.Error(fmt.Sprintf(watchReloadFailedFormat, emitError))
			return
		}
		watchLogger.Info(fmt.Sprintf(watchValidationMessageFormat, utils.FormatTimestamp(time.Now()), report.ErrorCount(), report.WarningCount()))
	}

	watcher, watcherError := watch.NewWatcher(resolvedRoots, options.Debounce)
	if watcherError != nil {
		return watcherError
	}
	defer func() {
		_ = watcher.Close()
	}()

	watchLogger.Info(fmt.Sprintf(watchStartedMessageFormat, len(resolvedRoots), options.Debounce))
	runValidation()
	return watcher.Run(signalContext, runValidation)
}

// watchLoggerFor selects the console logger used for watch mode progress.
func watchLoggerFor(verbose bool) (*zap.Logger, error) {
	if verbose {
		return utils.NewVerboseLogger()
	}
	return utils.NewApplicationLogger()
}

// renderReport renders a validation report in the requested format.
func renderReport(report *validate.Report, format string) (string, error) {
	if format == output.FormatJSON {
		return output.RenderReportJSON(report)
	}
	return output.RenderReportRaw(report), nil
}
