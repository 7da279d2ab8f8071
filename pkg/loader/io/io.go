package io

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"quizgen/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IODocumentLoader loads files directly from the local filesystem with caching.
type IODocumentLoader struct {
	root string
	ext  string

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIODocumentLoaderParams configures a filesystem loader. Root is the
// directory enumerated by ListDocuments and Ext the extension filter,
// e.g. ".pdf".
type NewIODocumentLoaderParams struct {
	Root string
	Ext  string
}

// NewIODocumentLoader creates a new filesystem-based document loader.
func NewIODocumentLoader(params NewIODocumentLoaderParams) *IODocumentLoader {
	return &IODocumentLoader{
		root:  params.Root,
		ext:   params.Ext,
		cache: make(map[string][]byte),
	}
}

// GetFileText reads the file content from the filesystem. Results are cached.
func (l *IODocumentLoader) GetFileText(ctx context.Context, doc loader.Document) ([]byte, error) {
	key := loader.CacheKey(doc)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		result, err := os.ReadFile(doc.Path)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// ListDocuments enumerates the files under the configured root directory
// matching the configured extension. The listing is not recursive.
func (l *IODocumentLoader) ListDocuments(ctx context.Context) ([]loader.Document, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, err
	}

	docs := make([]loader.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if l.ext != "" && !strings.EqualFold(filepath.Ext(entry.Name()), l.ext) {
			continue
		}
		docs = append(docs, loader.NewDocument(loader.NewDocumentParams{
			ID:     entry.Name(),
			Path:   filepath.Join(l.root, entry.Name()),
			Loader: l,
		}))
	}

	return docs, nil
}
