// Package content loads the encyclopedia's Markdown entries and assembles
// the relationship graph from their frontmatter.
package content

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pioneerwiki/lineage/internal/graph"
)

// Collection names double as directory names beneath a content root.
const (
	CollectionPeople       = "people"
	CollectionWorks        = "works"
	CollectionInstitutions = "institutions"
	CollectionPacks        = "packs"
)

// Collections lists every collection directory in load order.
var Collections = []string{CollectionPeople, CollectionWorks, CollectionInstitutions, CollectionPacks}

// EntryFileExtension is the extension entry files must carry.
const EntryFileExtension = ".md"

const frontmatterDelimiter = "---"

// ErrMissingFrontmatter indicates a file that does not open with a frontmatter block.
var ErrMissingFrontmatter = errors.New("content: missing frontmatter delimiter")

// ErrUnterminatedFrontmatter indicates a frontmatter block without a closing delimiter.
var ErrUnterminatedFrontmatter = errors.New("content: unterminated frontmatter block")

// ErrMalformedFrontmatter indicates frontmatter that is not valid YAML.
var ErrMalformedFrontmatter = errors.New("content: malformed frontmatter")

// Relation is one relationship declared in an entry's frontmatter. The
// declaring entry is the edge source and To names the target. Kind, when
// present, overrides label classification.
type Relation struct {
	To    string `yaml:"to" json:"to" validate:"required,entryslug"`
	Label string `yaml:"label" json:"label,omitempty"`
	Kind  string `yaml:"kind" json:"kind,omitempty" validate:"omitempty,oneof=influence affiliation"`
	Year  int    `yaml:"year" json:"year,omitempty" validate:"omitempty,gte=0,lte=2100"`
}

// Frontmatter is the YAML header of an entry file. ID and Kind are resolved
// during parsing when absent: ID defaults to the file slug and Kind to the
// collection's kind.
type Frontmatter struct {
	ID        string     `yaml:"id" validate:"required,entryslug"`
	Name      string     `yaml:"name" validate:"required"`
	Kind      string     `yaml:"kind" validate:"omitempty,oneof=person work institution"`
	Born      int        `yaml:"born" validate:"omitempty,gte=0,lte=2100"`
	Died      int        `yaml:"died" validate:"omitempty,gte=0,lte=2100"`
	Year      int        `yaml:"year" validate:"omitempty,gte=0,lte=2100"`
	Founded   int        `yaml:"founded" validate:"omitempty,gte=0,lte=2100"`
	Summary   string     `yaml:"summary"`
	Aliases   []string   `yaml:"aliases"`
	Tags      []string   `yaml:"tags"`
	Relations []Relation `yaml:"relations" validate:"dive"`
	Members   []string   `yaml:"members" validate:"dive,entryslug"`
}

// Entry is one parsed content file.
type Entry struct {
	Path        string
	Collection  string
	Slug        string
	Frontmatter Frontmatter
	Body        string
}

// IsPack reports whether the entry belongs to the packs collection. Packs are
// curated reading lists over existing entries, not graph nodes.
func (entry Entry) IsPack() bool {
	return entry.Collection == CollectionPacks
}

// Node converts the entry into its graph node. Calling Node on a pack is a
// programming error guarded by IsPack at the assembly site.
func (entry Entry) Node() graph.Node {
	return graph.Node{
		ID:      entry.Frontmatter.ID,
		Kind:    graph.NodeKind(entry.Frontmatter.Kind),
		Name:    entry.Frontmatter.Name,
		Years:   entry.lifespan(),
		Summary: entry.Frontmatter.Summary,
		Tags:    entry.Frontmatter.Tags,
	}
}

func (entry Entry) lifespan() string {
	front := entry.Frontmatter
	switch {
	case front.Born != 0 && front.Died != 0:
		return fmt.Sprintf("%d-%d", front.Born, front.Died)
	case front.Born != 0:
		return fmt.Sprintf("%d-", front.Born)
	case front.Year != 0:
		return fmt.Sprintf("%d", front.Year)
	case front.Founded != 0:
		return fmt.Sprintf("%d", front.Founded)
	}
	return ""
}

// ParseEntry parses the raw bytes of one entry file. The collection names the
// directory the file came from and supplies the kind default.
func ParseEntry(path string, collection string, raw []byte) (Entry, error) {
	header, body, splitError := splitFrontmatter(string(raw))
	if splitError != nil {
		return Entry{}, splitError
	}
	var front Frontmatter
	if unmarshalError := yaml.Unmarshal([]byte(header), &front); unmarshalError != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrMalformedFrontmatter, unmarshalError)
	}
	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if front.ID == "" {
		front.ID = slug
	}
	if front.Kind == "" {
		front.Kind = KindForCollection(collection)
	}
	return Entry{
		Path:        path,
		Collection:  collection,
		Slug:        slug,
		Frontmatter: front,
		Body:        body,
	}, nil
}

// splitFrontmatter separates the YAML header from the Markdown body. The
// header must open the file with a delimiter line and close with another;
// the body may be empty.
func splitFrontmatter(raw string) (string, string, error) {
	normalized := strings.ReplaceAll(strings.TrimPrefix(raw, "\uFEFF"), "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return "", "", ErrMissingFrontmatter
	}
	remainder := normalized[len(frontmatterDelimiter):]
	parts := strings.SplitN(remainder, "\n"+frontmatterDelimiter, 2)
	if len(parts) < 2 {
		return "", "", ErrUnterminatedFrontmatter
	}
	return parts[0], strings.TrimSpace(parts[1]), nil
}

// KindForCollection returns the node kind implied by a collection directory.
// Packs and unknown collections have no implied kind.
func KindForCollection(collection string) string {
	switch collection {
	case CollectionPeople:
		return string(graph.NodeKindPerson)
	case CollectionWorks:
		return string(graph.NodeKindWork)
	case CollectionInstitutions:
		return string(graph.NodeKindInstitution)
	}
	return ""
}

// slugPattern constrains ids to lowercase words joined by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsValidSlug reports whether a value is usable as an entry identifier.
func IsValidSlug(value string) bool {
	return slugPattern.MatchString(value)
}
