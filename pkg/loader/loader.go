package loader

import (
	"context"
)

// Document represents a source file that can be turned into text for
// indexing. The actual content is retrieved via the associated Loader.
type Document struct {
	ID     string
	Path   string
	Loader DocumentLoader
}

// NewDocumentParams defines the input parameters for creating a Document.
type NewDocumentParams struct {
	ID     string
	Path   string
	Loader DocumentLoader
}

// NewDocument creates a Document bound to the given loader.
func NewDocument(params NewDocumentParams) Document {
	return Document{
		ID:     params.ID,
		Path:   params.Path,
		Loader: params.Loader,
	}
}

// GetText retrieves the raw text content of the document using its Loader.
func (d *Document) GetText(ctx context.Context) ([]byte, error) {
	return d.Loader.GetFileText(ctx, *d)
}

// DocumentLoader defines the interface for loading document contents.
// Implementations may read from disk, object storage, or wrap another
// loader to post-process its output.
type DocumentLoader interface {
	GetFileText(ctx context.Context, doc Document) ([]byte, error)
}

// DocumentSource enumerates the documents available at a storage
// location, typically filtered to a single file extension.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}

// CacheKey derives the cache key loaders use for a document.
func CacheKey(doc Document) string {
	return doc.ID + ":" + doc.Path
}
