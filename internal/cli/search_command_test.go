package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pioneerwiki/lineage/internal/output"
)

func decodeSearch(t *testing.T, payload []byte) output.SearchOutput {
	t.Helper()
	var decoded output.SearchOutput
	if unmarshalError := json.Unmarshal(payload, &decoded); unmarshalError != nil {
		t.Fatalf("unmarshal search payload: %v", unmarshalError)
	}
	return decoded
}

func TestRunSearchCommandFindsEntries(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := searchOptions{
		Query:     "engine",
		Limit:     10,
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "json",
		Writer:    outputBuffer,
	}
	if runError := runSearchCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	decoded := decodeSearch(t, outputBuffer.Bytes())
	if decoded.Query != "engine" {
		t.Fatalf("expected query to round-trip, got %q", decoded.Query)
	}
	hitIDs := make(map[string]bool, len(decoded.Hits))
	for _, hit := range decoded.Hits {
		hitIDs[hit.ID] = true
	}
	for _, expectedID := range []string{"analytical-engine", "ada-lovelace", "charles-babbage"} {
		if !hitIDs[expectedID] {
			t.Fatalf("expected hit for %s, got %v", expectedID, decoded.Hits)
		}
	}
}

func TestRunSearchCommandFieldQuery(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := searchOptions{
		Query:     "kind:person",
		Limit:     10,
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "json",
		Writer:    outputBuffer,
	}
	if runError := runSearchCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	decoded := decodeSearch(t, outputBuffer.Bytes())
	if len(decoded.Hits) != 2 {
		t.Fatalf("expected the two people, got %+v", decoded.Hits)
	}
	for _, hit := range decoded.Hits {
		if hit.Kind != "person" {
			t.Fatalf("expected person hits only, got %+v", hit)
		}
	}
}

func TestRunSearchCommandHonorsLimit(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := searchOptions{
		Query:     "engine",
		Limit:     1,
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "json",
		Writer:    outputBuffer,
	}
	if runError := runSearchCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	decoded := decodeSearch(t, outputBuffer.Bytes())
	if len(decoded.Hits) != 1 {
		t.Fatalf("expected a single hit, got %+v", decoded.Hits)
	}
}

func TestRunSearchCommandRawFormat(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := searchOptions{
		Query:     "kind:institution",
		Limit:     10,
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "raw",
		Writer:    outputBuffer,
	}
	if runError := runSearchCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	rendered := outputBuffer.String()
	if !strings.Contains(rendered, `Results for "kind:institution": 1 hit`) {
		t.Fatalf("unexpected header in %q", rendered)
	}
	if !strings.Contains(rendered, "royal-society [institution]") {
		t.Fatalf("expected institution hit line in %q", rendered)
	}
}
