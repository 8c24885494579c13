// Package scaffold creates skeleton entry files inside a content tree.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pioneerwiki/lineage/internal/content"
	"github.com/pioneerwiki/lineage/internal/utils"
)

const entryTemplate = `---
id: %s
name: %s
kind: %s
summary: ""
relations: []
---

Write about this entry here.
`

const packTemplate = `---
id: %s
name: %s
members: []
---

Describe this reading pack here.
`

// Options controls how a new entry is scaffolded.
type Options struct {
	Root       string
	Collection string
	Name       string
	ID         string
	Force      bool
}

// CreateEntry writes a skeleton entry for the requested collection and returns
// the path of the created file. The identifier defaults to a slug derived from
// the display name; an existing file is only replaced when Force is set.
func CreateEntry(options Options) (string, error) {
	if options.Name == "" {
		return "", fmt.Errorf("entry name is required")
	}
	if !utils.ContainsString(content.Collections, options.Collection) {
		return "", fmt.Errorf("unsupported collection %q", options.Collection)
	}

	entryID := options.ID
	if entryID == "" {
		entryID = utils.Slugify(options.Name)
	}
	if !content.IsValidSlug(entryID) {
		return "", fmt.Errorf("cannot derive an identifier from %q, pass one explicitly", options.Name)
	}

	collectionDirectory := filepath.Join(options.Root, options.Collection)
	if mkdirError := os.MkdirAll(collectionDirectory, 0o755); mkdirError != nil {
		return "", fmt.Errorf("create collection directory %s: %w", collectionDirectory, mkdirError)
	}

	destinationPath := filepath.Join(collectionDirectory, entryID+content.EntryFileExtension)
	if _, statError := os.Stat(destinationPath); statError == nil {
		if !options.Force {
			return "", fmt.Errorf("entry already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(statError) {
		return "", fmt.Errorf("inspect entry path %s: %w", destinationPath, statError)
	}

	rendered := renderEntry(options.Collection, entryID, options.Name)
	if writeError := os.WriteFile(destinationPath, []byte(rendered), 0o644); writeError != nil {
		return "", fmt.Errorf("write entry to %s: %w", destinationPath, writeError)
	}

	return destinationPath, nil
}

func renderEntry(collection string, entryID string, name string) string {
	quotedName := strconv.Quote(name)
	if collection == content.CollectionPacks {
		return fmt.Sprintf(packTemplate, entryID, quotedName)
	}
	return fmt.Sprintf(entryTemplate, entryID, quotedName, content.KindForCollection(collection))
}
