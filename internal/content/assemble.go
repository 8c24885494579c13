package content

import "github.com/pioneerwiki/lineage/internal/graph"

// DuplicateID records an entry whose id collides with an earlier entry. The
// earlier entry keeps the id; the later one contributes neither node nor
// edges.
type DuplicateID struct {
	ID        string
	Path      string
	FirstPath string
}

// Assemble builds the viewer dataset from a corpus: one node per non-pack
// entry with first occurrence winning duplicate ids, and one edge per
// declared relation of the surviving entries. Packs contribute nothing here.
func Assemble(corpus *Corpus) (graph.Dataset, []DuplicateID) {
	dataset := graph.Dataset{}
	var duplicates []DuplicateID
	firstPaths := make(map[string]string, len(corpus.Entries))
	for _, entry := range corpus.Entries {
		if entry.IsPack() {
			continue
		}
		identifier := entry.Frontmatter.ID
		if firstPath, seen := firstPaths[identifier]; seen {
			duplicates = append(duplicates, DuplicateID{ID: identifier, Path: entry.Path, FirstPath: firstPath})
			continue
		}
		firstPaths[identifier] = entry.Path
		dataset.Nodes = append(dataset.Nodes, entry.Node())
		for _, relation := range entry.Frontmatter.Relations {
			dataset.Edges = append(dataset.Edges, EdgeFromRelation(identifier, relation))
		}
	}
	return dataset, duplicates
}

// EdgeFromRelation converts one declared relation into an edge from the
// declaring entry. An explicit relation kind wins; otherwise the label
// classification decides, falling back to its conservative default for
// labels outside the vocabulary.
func EdgeFromRelation(sourceID string, relation Relation) graph.Edge {
	kind := graph.EdgeKind(relation.Kind)
	if relation.Kind == "" {
		kind = graph.ClassifyLabel(relation.Label).Kind
	}
	return graph.Edge{
		Source: sourceID,
		Target: relation.To,
		Kind:   kind,
		Label:  relation.Label,
		Year:   relation.Year,
	}
}
