package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// defaultParallelism bounds concurrent entry parsing.
const defaultParallelism = 8

// LoadFailure records one file that could not be parsed. Failures never abort
// a load; the validator reports them and every other consumer works with the
// entries that did parse.
type LoadFailure struct {
	Path  string
	Cause error
}

// Corpus is the outcome of loading one or more content roots.
type Corpus struct {
	Entries  []Entry
	Failures []LoadFailure
}

// EntriesInCollection returns the corpus entries belonging to the collection,
// preserving load order.
func (corpus *Corpus) EntriesInCollection(collection string) []Entry {
	var matched []Entry
	for _, entry := range corpus.Entries {
		if entry.Collection == collection {
			matched = append(matched, entry)
		}
	}
	return matched
}

type cachedEntry struct {
	size                int64
	modifiedNanoseconds int64
	entry               Entry
}

// Loader reads entry files beneath content roots. A loader is safe for reuse
// across loads; watch mode reuses one so unchanged files skip re-parsing
// through the cache.
type Loader struct {
	parallelism int
	cache       *lru.Cache[string, cachedEntry]
}

// NewLoader builds a loader. A positive cacheSize enables an LRU parse cache
// keyed by path and invalidated by file size and modification time.
func NewLoader(cacheSize int) *Loader {
	loader := &Loader{parallelism: defaultParallelism}
	if cacheSize > 0 {
		cache, cacheError := lru.New[string, cachedEntry](cacheSize)
		if cacheError == nil {
			loader.cache = cache
		}
	}
	return loader
}

type entryFile struct {
	path       string
	collection string
}

// Load walks every root's collection directories and parses all entry files,
// in parallel, into a corpus. Parse failures are collected per file; only
// filesystem walk errors and context cancellation abort the load. Entries are
// ordered by collection and path regardless of parse scheduling.
func (loader *Loader) Load(parentContext context.Context, roots []string) (*Corpus, error) {
	files, walkError := collectEntryFiles(roots)
	if walkError != nil {
		return nil, walkError
	}
	type loadResult struct {
		entry   Entry
		failure error
	}
	results := make([]loadResult, len(files))
	group, groupContext := errgroup.WithContext(parentContext)
	group.SetLimit(loader.parallelism)
	for index, file := range files {
		index, file := index, file
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			entry, parseError := loader.loadEntry(file)
			results[index] = loadResult{entry: entry, failure: parseError}
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	corpus := &Corpus{}
	for index, result := range results {
		if result.failure != nil {
			corpus.Failures = append(corpus.Failures, LoadFailure{Path: files[index].path, Cause: result.failure})
			continue
		}
		corpus.Entries = append(corpus.Entries, result.entry)
	}
	return corpus, nil
}

func (loader *Loader) loadEntry(file entryFile) (Entry, error) {
	fileInfo, statError := os.Stat(file.path)
	if statError != nil {
		return Entry{}, statError
	}
	if loader.cache != nil {
		if cached, hit := loader.cache.Get(file.path); hit {
			if cached.size == fileInfo.Size() && cached.modifiedNanoseconds == fileInfo.ModTime().UnixNano() {
				return cached.entry, nil
			}
		}
	}
	raw, readError := os.ReadFile(file.path)
	if readError != nil {
		return Entry{}, readError
	}
	entry, parseError := ParseEntry(file.path, file.collection, raw)
	if parseError != nil {
		return Entry{}, parseError
	}
	if loader.cache != nil {
		loader.cache.Add(file.path, cachedEntry{
			size:                fileInfo.Size(),
			modifiedNanoseconds: fileInfo.ModTime().UnixNano(),
			entry:               entry,
		})
	}
	return entry, nil
}

// collectEntryFiles lists entry files under every root's collection
// directories in deterministic order. Roots must exist; collection
// directories are optional per root. Dotfiles and non-Markdown files are
// skipped.
func collectEntryFiles(roots []string) ([]entryFile, error) {
	var files []entryFile
	for _, root := range roots {
		if _, statError := os.Stat(root); statError != nil {
			return nil, fmt.Errorf("content root %s: %w", root, statError)
		}
		for _, collection := range Collections {
			collectionPath := filepath.Join(root, collection)
			if _, statError := os.Stat(collectionPath); statError != nil {
				continue
			}
			walkError := filepath.WalkDir(collectionPath, func(path string, directoryEntry fs.DirEntry, visitError error) error {
				if visitError != nil {
					return visitError
				}
				name := directoryEntry.Name()
				if directoryEntry.IsDir() {
					if strings.HasPrefix(name, ".") && path != collectionPath {
						return fs.SkipDir
					}
					return nil
				}
				if strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), EntryFileExtension) {
					return nil
				}
				files = append(files, entryFile{path: path, collection: collection})
				return nil
			})
			if walkError != nil {
				return nil, fmt.Errorf("walking %s: %w", collectionPath, walkError)
			}
		}
	}
	sort.SliceStable(files, func(first, second int) bool {
		if files[first].collection != files[second].collection {
			return collectionRank(files[first].collection) < collectionRank(files[second].collection)
		}
		return files[first].path < files[second].path
	})
	return files, nil
}

func collectionRank(collection string) int {
	for index, known := range Collections {
		if known == collection {
			return index
		}
	}
	return len(Collections)
}
