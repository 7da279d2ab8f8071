package pdf

import (
	"context"
	"sync"

	"quizgen/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// PDFDocumentLoader wraps another loader and extracts plain text from
// the PDF bytes it returns.
type PDFDocumentLoader struct {
	loader loader.DocumentLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewPDFDocumentLoader creates a PDF loader that extracts text from PDF
// content supplied by the inner loader.
func NewPDFDocumentLoader(inner loader.DocumentLoader) *PDFDocumentLoader {
	return &PDFDocumentLoader{
		loader: inner,
		cache:  make(map[string][]byte),
	}
}

// GetFileText extracts the text of a PDF document. Results are cached.
func (l *PDFDocumentLoader) GetFileText(ctx context.Context, doc loader.Document) ([]byte, error) {
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

		content, err := l.loader.GetFileText(ctx, doc)
		if err != nil {
			return nil, err
		}

		text, err := parsePDF(ctx, content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = text
		l.cacheMu.Unlock()

		return text, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
