package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pioneerwiki/lineage/internal/config"
	"github.com/pioneerwiki/lineage/internal/validate"
)

func TestRunValidateCommandCleanTree(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := validateOptions{
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "raw",
		Writer:    outputBuffer,
	}
	if runError := runValidateCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	rendered := outputBuffer.String()
	if !strings.Contains(rendered, "no issues found") {
		t.Fatalf("expected clean report, got %q", rendered)
	}
	if !strings.Contains(rendered, "Summary: 5 entries, 3 edges, 1 pack, 0 errors, 0 warnings") {
		t.Fatalf("unexpected summary in %q", rendered)
	}
}

func TestRunValidateCommandBrokenRelationFails(t *testing.T) {
	root := t.TempDir()
	writeEntryFixture(t, root, "people/ada-lovelace.md", `---
id: ada-lovelace
name: Ada Lovelace
kind: person
summary: Wrote the first published program.
relations:
  - to: menabrea
    label: influenced
---

Body.
`)
	outputBuffer := &bytes.Buffer{}
	options := validateOptions{
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "json",
		Writer:    outputBuffer,
	}
	runError := runValidateCommand(context.Background(), options)
	if runError == nil || runError.Error() != validationFailedMessage {
		t.Fatalf("expected validation failure, got %v", runError)
	}
	var report validate.Report
	if unmarshalError := json.Unmarshal(outputBuffer.Bytes(), &report); unmarshalError != nil {
		t.Fatalf("unmarshal report: %v", unmarshalError)
	}
	if report.ErrorCount() == 0 {
		t.Fatalf("expected at least one error, got %+v", report)
	}
}

func TestRunValidateCommandStrictElevatesWarnings(t *testing.T) {
	root := t.TempDir()
	writeEntryFixture(t, root, "people/alan-turing.md", `---
id: alan-turing
name: Alan Turing
kind: person
summary: Defined computability with an abstract machine.
---

Body.
`)
	relaxed := validateOptions{
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "raw",
		Writer:    &bytes.Buffer{},
	}
	if runError := runValidateCommand(context.Background(), relaxed); runError != nil {
		t.Fatalf("expected warnings to pass without strict, got %v", runError)
	}
	strict := relaxed
	strict.Strict = true
	strict.Writer = &bytes.Buffer{}
	runError := runValidateCommand(context.Background(), strict)
	if runError == nil || runError.Error() != validationFailedMessage {
		t.Fatalf("expected strict run to fail, got %v", runError)
	}
}

func TestRunValidateWatchStopsOnCancel(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := validateOptions{
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "raw",
		Debounce:  10 * time.Millisecond,
		Writer:    outputBuffer,
	}
	watchContext, cancelWatch := context.WithCancel(context.Background())
	timer := time.AfterFunc(200*time.Millisecond, cancelWatch)
	defer timer.Stop()
	defer cancelWatch()
	if runError := runValidateWatch(watchContext, options); runError != nil {
		t.Fatalf("expected clean shutdown, got %v", runError)
	}
	if !strings.Contains(outputBuffer.String(), "no issues found") {
		t.Fatalf("expected initial validation output, got %q", outputBuffer.String())
	}
}

func TestValidateCommandThroughRootCommand(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	root := buildFixtureTree(t)
	commandOutput, executeError := executeRootCommand(t, "validate", root)
	if executeError != nil {
		t.Fatalf("unexpected error: %v", executeError)
	}
	if !strings.Contains(commandOutput, "no issues found") {
		t.Fatalf("expected clean report, got %q", commandOutput)
	}
}

func TestValidateCommandRejectsUnknownFormat(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	root := buildFixtureTree(t)
	_, executeError := executeRootCommand(t, "validate", root, "--format", "xml")
	if executeError == nil || !strings.Contains(executeError.Error(), "Invalid format value") {
		t.Fatalf("expected format rejection, got %v", executeError)
	}
}

func TestResolvedWatchDebounce(t *testing.T) {
	if debounce := resolvedWatchDebounce(config.ValidateConfiguration{}); debounce != defaultWatchDebounceInterval {
		t.Fatalf("expected default debounce, got %s", debounce)
	}
	if debounce := resolvedWatchDebounce(config.ValidateConfiguration{WatchDebounceMilliseconds: intPointer(100)}); debounce != 100*time.Millisecond {
		t.Fatalf("expected 100ms, got %s", debounce)
	}
	if debounce := resolvedWatchDebounce(config.ValidateConfiguration{WatchDebounceMilliseconds: intPointer(0)}); debounce != defaultWatchDebounceInterval {
		t.Fatalf("expected default for zero, got %s", debounce)
	}
}
