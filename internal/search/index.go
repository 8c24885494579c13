// Package search builds an in-memory full-text index over the corpus so
// authors can look up entry ids while wiring relations.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/pioneerwiki/lineage/internal/content"
)

// DefaultLimit caps result counts when the caller passes none.
const DefaultLimit = 10

// Hit is one search result.
type Hit struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Kind       string  `json:"kind,omitempty"`
	Collection string  `json:"collection"`
	Path       string  `json:"path"`
	Score      float64 `json:"score"`
}

// entryDocument is the shape indexed per entry. Identity fields use the
// keyword analyzer so query strings like kind:person filter exactly.
type entryDocument struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Collection string   `json:"collection"`
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	Summary    string   `json:"summary"`
	Tags       []string `json:"tags"`
}

// Index is an in-memory full-text index over a corpus. Indexes live for one
// invocation; nothing is persisted.
type Index struct {
	bleveIndex bleve.Index
}

// NewIndex builds and fills an index from the corpus entries, packs
// included.
func NewIndex(corpus *content.Corpus) (*Index, error) {
	bleveIndex, newError := bleve.NewMemOnly(buildIndexMapping())
	if newError != nil {
		return nil, fmt.Errorf("creating search index: %w", newError)
	}
	batch := bleveIndex.NewBatch()
	for _, entry := range corpus.Entries {
		document := entryDocument{
			ID:         entry.Frontmatter.ID,
			Kind:       entry.Frontmatter.Kind,
			Collection: entry.Collection,
			Path:       entry.Path,
			Name:       entry.Frontmatter.Name,
			Aliases:    entry.Frontmatter.Aliases,
			Summary:    entry.Frontmatter.Summary,
			Tags:       entry.Frontmatter.Tags,
		}
		if indexError := batch.Index(document.ID, document); indexError != nil {
			return nil, fmt.Errorf("indexing %s: %w", document.ID, indexError)
		}
	}
	if batchError := bleveIndex.Batch(batch); batchError != nil {
		return nil, fmt.Errorf("filling search index: %w", batchError)
	}
	return &Index{bleveIndex: bleveIndex}, nil
}

// Search runs a query-string query and returns up to limit hits ranked by
// score. An empty query returns no hits.
func (searchIndex *Index) Search(parentContext context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	request := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(query), limit, 0, false)
	request.Fields = []string{"*"}
	result, searchError := searchIndex.bleveIndex.SearchInContext(parentContext, request)
	if searchError != nil {
		return nil, fmt.Errorf("searching %q: %w", query, searchError)
	}
	hits := make([]Hit, 0, len(result.Hits))
	for _, match := range result.Hits {
		hit := Hit{ID: match.ID, Score: match.Score}
		if name, isString := match.Fields["name"].(string); isString {
			hit.Name = name
		}
		if kind, isString := match.Fields["kind"].(string); isString {
			hit.Kind = kind
		}
		if collection, isString := match.Fields["collection"].(string); isString {
			hit.Collection = collection
		}
		if path, isString := match.Fields["path"].(string); isString {
			hit.Path = path
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of indexed entries.
func (searchIndex *Index) Count() (uint64, error) {
	return searchIndex.bleveIndex.DocCount()
}

// Close releases the index.
func (searchIndex *Index) Close() error {
	return searchIndex.bleveIndex.Close()
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	entryMapping := bleve.NewDocumentMapping()
	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name
	for _, fieldName := range []string{"id", "kind", "collection", "path"} {
		entryMapping.AddFieldMappingsAt(fieldName, keywordField)
	}
	textField := bleve.NewTextFieldMapping()
	for _, fieldName := range []string{"name", "aliases", "summary", "tags"} {
		entryMapping.AddFieldMappingsAt(fieldName, textField)
	}
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = entryMapping
	return indexMapping
}
