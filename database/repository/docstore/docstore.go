package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a referenced document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// deleteSentinel is the type of DeleteField.
type deleteSentinel struct{}

// DeleteField marks a field for removal inside an UpdateFields call.
// Partial updates do not remove fields by omission, so callers that
// need a field gone must send this sentinel explicitly.
var DeleteField deleteSentinel

// Ref addresses one document inside a collection.
type Ref struct {
	Path string
	ID   string
}

// Document is one query result: the document id plus its decoded data.
type Document struct {
	ID   string
	Data map[string]any
}

// FieldUpdate addresses one field by its path segments. Segments are
// kept explicit (not a dotted string) because document keys such as
// mirror event ids legitimately contain dots.
type FieldUpdate struct {
	Path  []string
	Value any
}

// Filter is one comparison in a query. Op is one of "==", "<", "<=",
// ">", ">=".
type Filter struct {
	Field string
	Op    string
	Value any
}

// Client is the document store access layer. Single-document writes
// are atomic; sequences across documents are not, and no method here
// provides optimistic locking.
type Client interface {
	// GetDocument returns the full document data, or ErrNotFound.
	GetDocument(ctx context.Context, path, id string) (map[string]any, error)

	// SetDocument writes a document. With merge set, provided fields
	// are deep-merged into the existing document; otherwise the
	// document is replaced wholesale.
	SetDocument(ctx context.Context, path, id string, data map[string]any, merge bool) error

	// UpdateFields applies a partial update to an existing document.
	// Returns ErrNotFound when the document does not exist.
	UpdateFields(ctx context.Context, path, id string, updates []FieldUpdate) error

	// CreateDocument writes a new document under a store-assigned id
	// and returns that id.
	CreateDocument(ctx context.Context, path string, data map[string]any) (string, error)

	// DeleteDocument removes a document. Deleting an absent document
	// is not an error.
	DeleteDocument(ctx context.Context, path, id string) error

	// QueryEquals returns every document in the collection matching
	// all equality filters. Filter keys may be dotted paths into
	// nested maps ("data.checklistId").
	QueryEquals(ctx context.Context, path string, filters map[string]any) ([]Document, error)

	// Query is the general form of QueryEquals, allowing range
	// comparisons.
	Query(ctx context.Context, path string, filters []Filter) ([]Document, error)

	// BatchDelete removes every referenced document in one batched
	// operation.
	BatchDelete(ctx context.Context, refs []Ref) error
}
