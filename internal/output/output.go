// Package output renders command results for terminals and for the static viewer.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/graph"
	"github.com/pioneerwiki/lineage/internal/search"
	"github.com/pioneerwiki/lineage/internal/validate"
)

const (
	// FormatRaw renders human-readable text.
	FormatRaw = "raw"
	// FormatJSON renders the payload shape consumed by the static viewer.
	FormatJSON = "json"

	indentPrefix = ""
	indentSpacer = "  "

	noIssuesMessage   = "no issues found"
	noEntryAnnotation = " (no entry)"
	nodesHeader       = "Nodes:"
	edgesHeader       = "Edges:"
	membersHeader     = "Members:"
)

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case FormatRaw, FormatJSON:
		return true
	default:
		return false
	}
}

// NeighborhoodOutput is the payload produced by the neighborhood command. IDs
// carries the full membership set; Nodes holds the records that exist for
// those ids, so referenced-but-unwritten ids appear in IDs alone.
type NeighborhoodOutput struct {
	Start string       `json:"start"`
	Depth int          `json:"depth"`
	IDs   []string     `json:"ids"`
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

// SearchOutput is the payload produced by the search command.
type SearchOutput struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// StatsOutput summarizes a loaded corpus.
type StatsOutput struct {
	Roots          []string       `json:"roots"`
	EntryCount     int            `json:"entries"`
	ByCollection   map[string]int `json:"byCollection"`
	PackCount      int            `json:"packs"`
	NodeCount      int            `json:"nodes"`
	EdgeCount      int            `json:"edges"`
	EdgesByKind    map[string]int `json:"edgesByKind"`
	OrphanCount    int            `json:"orphans"`
	FailureCount   int            `json:"failures"`
	TotalSizeBytes int64          `json:"totalSizeBytes"`
	TotalSize      string         `json:"totalSize"`
	TokenCount     int            `json:"tokens,omitempty"`
	TokenModel     string         `json:"model,omitempty"`
}

// RenderReportRaw returns a validation report as human-readable text.
func RenderReportRaw(report *validate.Report) string {
	var buffer bytes.Buffer
	if len(report.Issues) == 0 {
		buffer.WriteString(noIssuesMessage + "\n")
	}
	for _, issue := range report.Issues {
		location := issue.Path
		if issue.EntryID != "" {
			location += " [" + issue.EntryID + "]"
		}
		buffer.WriteString(fmt.Sprintf("%-7s %-15s %s: %s\n", issue.Severity, issue.Rule, location, issue.Message))
	}
	buffer.WriteString(fmt.Sprintf("Summary: %s, %s, %s, %s, %s\n",
		countNoun(report.EntryCount, "entry", "entries"),
		countNoun(report.EdgeCount, "edge", "edges"),
		countNoun(report.PackCount, "pack", "packs"),
		countNoun(report.ErrorCount(), "error", "errors"),
		countNoun(report.WarningCount(), "warning", "warnings")))
	return buffer.String()
}

// RenderReportJSON marshals a validation report.
func RenderReportJSON(report *validate.Report) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(report, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderDatasetRaw returns the assembled graph as human-readable text.
func RenderDatasetRaw(dataset graph.Dataset) string {
	var buffer bytes.Buffer
	buffer.WriteString(nodesHeader + "\n")
	for _, node := range dataset.Nodes {
		buffer.WriteString("  " + formatNodeLine(node) + "\n")
	}
	buffer.WriteString(edgesHeader + "\n")
	for _, edge := range dataset.Edges {
		buffer.WriteString("  " + formatEdgeLine(edge) + "\n")
	}
	buffer.WriteString(fmt.Sprintf("Summary: %s, %s\n",
		countNoun(len(dataset.Nodes), "node", "nodes"),
		countNoun(len(dataset.Edges), "edge", "edges")))
	return buffer.String()
}

// RenderDatasetJSON marshals the assembled graph for the viewer.
func RenderDatasetJSON(dataset graph.Dataset) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(dataset, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderNeighborhoodRaw returns a neighborhood payload as human-readable text.
func RenderNeighborhoodRaw(neighborhood NeighborhoodOutput) string {
	recordsByID := make(map[string]graph.Node, len(neighborhood.Nodes))
	for _, node := range neighborhood.Nodes {
		recordsByID[node.ID] = node
	}

	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("Neighborhood of %s at depth %d: %s\n",
		neighborhood.Start, neighborhood.Depth, countNoun(len(neighborhood.IDs), "member", "members")))
	buffer.WriteString(membersHeader + "\n")
	for _, memberID := range neighborhood.IDs {
		node, hasRecord := recordsByID[memberID]
		if hasRecord {
			buffer.WriteString("  " + formatNodeLine(node) + "\n")
		} else {
			buffer.WriteString("  " + memberID + noEntryAnnotation + "\n")
		}
	}
	buffer.WriteString(edgesHeader + "\n")
	for _, edge := range neighborhood.Edges {
		buffer.WriteString("  " + formatEdgeLine(edge) + "\n")
	}
	return buffer.String()
}

// RenderNeighborhoodJSON marshals a neighborhood payload for the viewer.
func RenderNeighborhoodJSON(neighborhood NeighborhoodOutput) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(neighborhood, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderSearchRaw returns search hits as human-readable text.
func RenderSearchRaw(result SearchOutput) string {
	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("Results for %q: %s\n", result.Query, countNoun(len(result.Hits), "hit", "hits")))
	for index, hit := range result.Hits {
		line := fmt.Sprintf("%d. %s", index+1, hit.ID)
		if hit.Kind != "" {
			line += " [" + hit.Kind + "]"
		}
		line += fmt.Sprintf(" (score %.2f) %s", hit.Score, hit.Path)
		buffer.WriteString("  " + line + "\n")
	}
	return buffer.String()
}

// RenderSearchJSON marshals search hits.
func RenderSearchJSON(result SearchOutput) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(result, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// statsCollectionOrder fixes the raw breakdown ordering for entry collections.
var statsCollectionOrder = []string{content.CollectionPeople, content.CollectionWorks, content.CollectionInstitutions, content.CollectionPacks}

// statsEdgeKindOrder fixes the raw breakdown ordering for edge kinds.
var statsEdgeKindOrder = []string{string(graph.EdgeKindInfluence), string(graph.EdgeKindAffiliation)}

// RenderStatsRaw returns corpus statistics as human-readable text.
func RenderStatsRaw(stats StatsOutput) string {
	var buffer bytes.Buffer
	buffer.WriteString(fmt.Sprintf("Entries: %d%s\n", stats.EntryCount, formatBreakdown(stats.ByCollection, statsCollectionOrder)))
	buffer.WriteString(fmt.Sprintf("Packs: %d\n", stats.PackCount))
	buffer.WriteString(fmt.Sprintf("Nodes: %d\n", stats.NodeCount))
	buffer.WriteString(fmt.Sprintf("Edges: %d%s\n", stats.EdgeCount, formatBreakdown(stats.EdgesByKind, statsEdgeKindOrder)))
	buffer.WriteString(fmt.Sprintf("Orphans: %d\n", stats.OrphanCount))
	buffer.WriteString(fmt.Sprintf("Failures: %d\n", stats.FailureCount))
	buffer.WriteString(fmt.Sprintf("Size: %s\n", stats.TotalSize))
	if stats.TokenCount > 0 {
		modelSuffix := ""
		if stats.TokenModel != "" {
			modelSuffix = fmt.Sprintf(" (model: %s)", stats.TokenModel)
		}
		buffer.WriteString(fmt.Sprintf("Tokens: %d%s\n", stats.TokenCount, modelSuffix))
	}
	return buffer.String()
}

// RenderStatsJSON marshals corpus statistics.
func RenderStatsJSON(stats StatsOutput) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(stats, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

func formatNodeLine(node graph.Node) string {
	line := fmt.Sprintf("[%s] %s: %s", node.Kind, node.ID, node.Name)
	if node.Years != "" {
		line += " (" + node.Years + ")"
	}
	return line
}

func formatEdgeLine(edge graph.Edge) string {
	line := fmt.Sprintf("%s -> %s [%s]", edge.Source, edge.Target, edge.Kind)
	if edge.Label != "" {
		line += fmt.Sprintf(" %q", edge.Label)
	}
	if edge.Year != 0 {
		line += fmt.Sprintf(" (%d)", edge.Year)
	}
	return line
}

func formatBreakdown(counts map[string]int, order []string) string {
	var parts []string
	for _, key := range order {
		if count, present := counts[key]; present && count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, key))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	joined := parts[0]
	for _, part := range parts[1:] {
		joined += ", " + part
	}
	return " (" + joined + ")"
}

func countNoun(count int, singular string, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
