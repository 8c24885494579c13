package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/output"
)

func decodeNeighborhood(t *testing.T, payload []byte) output.NeighborhoodOutput {
	t.Helper()
	var decoded output.NeighborhoodOutput
	if unmarshalError := json.Unmarshal(payload, &decoded); unmarshalError != nil {
		t.Fatalf("unmarshal neighborhood: %v", unmarshalError)
	}
	return decoded
}

func TestRunNeighborhoodCommandDepthBounds(t *testing.T) {
	root := buildFixtureTree(t)

	testCases := []struct {
		name          string
		startID       string
		depth         int
		expectedIDs   []string
		expectedEdges int
	}{
		{
			name:          "depth_zero_is_start_only",
			startID:       "ada-lovelace",
			depth:         0,
			expectedIDs:   []string{"ada-lovelace"},
			expectedEdges: 0,
		},
		{
			name:          "depth_one_reaches_direct_neighbors",
			startID:       "ada-lovelace",
			depth:         1,
			expectedIDs:   []string{"ada-lovelace", "analytical-engine"},
			expectedEdges: 1,
		},
		{
			name:          "depth_two_crosses_shared_work",
			startID:       "ada-lovelace",
			depth:         2,
			expectedIDs:   []string{"ada-lovelace", "analytical-engine", "charles-babbage"},
			expectedEdges: 2,
		},
		{
			name:          "depth_three_spans_the_component",
			startID:       "ada-lovelace",
			depth:         3,
			expectedIDs:   []string{"ada-lovelace", "analytical-engine", "charles-babbage", "royal-society"},
			expectedEdges: 3,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			outputBuffer := &bytes.Buffer{}
			options := neighborhoodOptions{
				StartID:   testCase.startID,
				Depth:     testCase.depth,
				Roots:     []string{root},
				CacheSize: defaultCacheSize,
				Format:    "json",
				Writer:    outputBuffer,
			}
			if runError := runNeighborhoodCommand(context.Background(), options); runError != nil {
				t.Fatalf("unexpected error: %v", runError)
			}
			decoded := decodeNeighborhood(t, outputBuffer.Bytes())
			if !reflect.DeepEqual(decoded.IDs, testCase.expectedIDs) {
				t.Fatalf("expected ids %v, got %v", testCase.expectedIDs, decoded.IDs)
			}
			if len(decoded.Nodes) != len(testCase.expectedIDs) {
				t.Fatalf("expected %d nodes, got %d", len(testCase.expectedIDs), len(decoded.Nodes))
			}
			if len(decoded.Edges) != testCase.expectedEdges {
				t.Fatalf("expected %d edges, got %d", testCase.expectedEdges, len(decoded.Edges))
			}
		})
	}
}

func TestRunNeighborhoodCommandKindFilter(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	options := neighborhoodOptions{
		StartID:   "charles-babbage",
		Depth:     1,
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "json",
		Kinds:     []graph.EdgeKind{graph.EdgeKindAffiliation},
		Writer:    outputBuffer,
	}
	if runError := runNeighborhoodCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	decoded := decodeNeighborhood(t, outputBuffer.Bytes())
	expectedIDs := []string{"charles-babbage", "royal-society"}
	if !reflect.DeepEqual(decoded.IDs, expectedIDs) {
		t.Fatalf("expected ids %v, got %v", expectedIDs, decoded.IDs)
	}
	if len(decoded.Edges) != 1 || decoded.Edges[0].Kind != graph.EdgeKindAffiliation {
		t.Fatalf("expected the affiliation edge only, got %+v", decoded.Edges)
	}
}

func TestRunNeighborhoodCommandUnknownStartWarns(t *testing.T) {
	root := buildFixtureTree(t)
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	options := neighborhoodOptions{
		StartID:     "grace-hopper",
		Depth:       2,
		Roots:       []string{root},
		CacheSize:   defaultCacheSize,
		Format:      "json",
		Writer:      outputBuffer,
		ErrorWriter: errorBuffer,
	}
	if runError := runNeighborhoodCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	if !strings.Contains(errorBuffer.String(), "no entry with id 'grace-hopper'") {
		t.Fatalf("expected unknown start warning, got %q", errorBuffer.String())
	}
	decoded := decodeNeighborhood(t, outputBuffer.Bytes())
	if !reflect.DeepEqual(decoded.IDs, []string{"grace-hopper"}) {
		t.Fatalf("expected the start id alone, got %v", decoded.IDs)
	}
	if len(decoded.Nodes) != 0 {
		t.Fatalf("expected no node records, got %+v", decoded.Nodes)
	}
}

func TestRunNeighborhoodCommandListsDanglingTargets(t *testing.T) {
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
	options := neighborhoodOptions{
		StartID:   "ada-lovelace",
		Depth:     1,
		Roots:     []string{root},
		CacheSize: defaultCacheSize,
		Format:    "raw",
		Writer:    outputBuffer,
	}
	if runError := runNeighborhoodCommand(context.Background(), options); runError != nil {
		t.Fatalf("unexpected error: %v", runError)
	}
	rendered := outputBuffer.String()
	if !strings.Contains(rendered, "Neighborhood of ada-lovelace at depth 1: 2 members") {
		t.Fatalf("unexpected header in %q", rendered)
	}
	if !strings.Contains(rendered, "menabrea (no entry)") {
		t.Fatalf("expected dangling id annotation in %q", rendered)
	}
}
