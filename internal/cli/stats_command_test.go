package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/output"
)

func TestRunStatsCommandRaw(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := statsOptions{
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "raw",
		Writer:    outputBuffer,
	}
	if runError := runStatsCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	rendered := outputBuffer.String()
	expectedFragments := []string{
		"Entries: 5 (2 people, 1 works, 1 institutions, 1 packs)",
		"Packs: 1",
		"Nodes: 4",
		"Edges: 3 (2 influence, 1 affiliation)",
		"Orphans: 0",
		"Failures: 0",
		"Size: ",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rendered, fragment) {
			t.Fatalf("expected %q in %q", fragment, rendered)
		}
	}
	if strings.Contains(rendered, "Tokens:") {
		t.Fatalf("expected no token line without --tokens, got %q", rendered)
	}
}

func TestRunStatsCommandJSON(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := statsOptions{
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "json",
		Writer:    outputBuffer,
	}
	if runError := runStatsCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	var decoded output.StatsOutput
	if unmarshalError := json.Unmarshal(outputBuffer.Bytes(), &decoded); unmarshalError != nil {
		t.Fatalf("unmarshal stats: %v", unmarshalError)
	}
	if decoded.EntryCount != 5 || decoded.PackCount != 1 || decoded.NodeCount != 4 || decoded.EdgeCount != 3 {
		t.Fatalf("unexpected counts %+v", decoded)
	}
	if decoded.OrphanCount != 0 {
		t.Fatalf("expected no orphans in the connected fixture, got %d", decoded.OrphanCount)
	}
	if decoded.TotalSizeBytes <= 0 || decoded.TotalSize == "" {
		t.Fatalf("expected a computed size, got %+v", decoded)
	}
	if len(decoded.Roots) != 1 {
		t.Fatalf("expected one resolved root, got %v", decoded.Roots)
	}
	if decoded.TokenCount != 0 || decoded.TokenModel != "" {
		t.Fatalf("expected token fields to stay empty, got %+v", decoded)
	}
}

func TestBuildStatsCountsOrphans(t *testing.T) {
	root := buildFixtureTree(t)
	writeEntryFixture(t, root, "people/alan-turing.md", `---
id: alan-turing
name: Alan Turing
kind: person
summary: Defined computability with an abstract machine.
---

Body.
`)
	corpus, resolvedRoots, loadError := loadCorpus(context.Background(), []string{root}, defaultCacheSize)
	if loadError != nil {
		t.Fatalf("load corpus: %v", loadError)
	}
	dataset, _ := content.Assemble(corpus)
	stats := buildStats(corpus, dataset, resolvedRoots)
	if stats.NodeCount != 5 {
		t.Fatalf("expected five nodes, got %d", stats.NodeCount)
	}
	if stats.OrphanCount != 1 {
		t.Fatalf("expected the unconnected entry to count as an orphan, got %d", stats.OrphanCount)
	}
}

func TestBuildStatsCountsFailures(t *testing.T) {
	root := buildFixtureTree(t)
	writeEntryFixture(t, root, "people/broken.md", "no frontmatter at all\n")
	corpus, resolvedRoots, loadError := loadCorpus(context.Background(), []string{root}, defaultCacheSize)
	if loadError != nil {
		t.Fatalf("load corpus: %v", loadError)
	}
	dataset, _ := content.Assemble(corpus)
	stats := buildStats(corpus, dataset, resolvedRoots)
	if stats.FailureCount != 1 {
		t.Fatalf("expected one unreadable entry, got %d", stats.FailureCount)
	}
	if stats.EntryCount != 5 {
		t.Fatalf("expected the readable entries only, got %d", stats.EntryCount)
	}
	if stats.ByCollection[content.CollectionPeople] != 2 {
		t.Fatalf("unexpected people count %d", stats.ByCollection[content.CollectionPeople])
	}
}
