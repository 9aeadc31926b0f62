package docstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreClient implements Client on Cloud Firestore.
type FirestoreClient struct {
	fs *firestore.Client
}

func NewFirestoreClient(fs *firestore.Client) *FirestoreClient {
	return &FirestoreClient{fs: fs}
}

func (c *FirestoreClient) GetDocument(ctx context.Context, path, id string) (map[string]any, error) {
	snap, err := c.fs.Collection(path).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", path, id, err)
	}
	return snap.Data(), nil
}

func (c *FirestoreClient) SetDocument(ctx context.Context, path, id string, data map[string]any, merge bool) error {
	doc := c.fs.Collection(path).Doc(id)
	var err error
	if merge {
		_, err = doc.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = doc.Set(ctx, data)
	}
	if err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", path, id, err)
	}
	return nil
}

func (c *FirestoreClient) UpdateFields(ctx context.Context, path, id string, updates []FieldUpdate) error {
	fsUpdates := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		value := u.Value
		if _, ok := value.(deleteSentinel); ok {
			value = firestore.Delete
		}
		fsUpdates = append(fsUpdates, firestore.Update{
			FieldPath: firestore.FieldPath(u.Path),
			Value:     value,
		})
	}
	_, err := c.fs.Collection(path).Doc(id).Update(ctx, fsUpdates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("docstore: update %s/%s: %w", path, id, err)
	}
	return nil
}

func (c *FirestoreClient) CreateDocument(ctx context.Context, path string, data map[string]any) (string, error) {
	ref, _, err := c.fs.Collection(path).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("docstore: create in %s: %w", path, err)
	}
	return ref.ID, nil
}

func (c *FirestoreClient) DeleteDocument(ctx context.Context, path, id string) error {
	if _, err := c.fs.Collection(path).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", path, id, err)
	}
	return nil
}

func (c *FirestoreClient) QueryEquals(ctx context.Context, path string, filters map[string]any) ([]Document, error) {
	fs := make([]Filter, 0, len(filters))
	for field, value := range filters {
		fs = append(fs, Filter{Field: field, Op: "==", Value: value})
	}
	return c.Query(ctx, path, fs)
}

func (c *FirestoreClient) Query(ctx context.Context, path string, filters []Filter) ([]Document, error) {
	q := c.fs.Collection(path).Query
	for _, f := range filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("docstore: query %s: %w", path, err)
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (c *FirestoreClient) BatchDelete(ctx context.Context, refs []Ref) error {
	if len(refs) == 0 {
		return nil
	}
	bw := c.fs.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(c.fs.Collection(ref.Path).Doc(ref.ID))
		if err != nil {
			bw.End()
			return fmt.Errorf("docstore: batch delete %s/%s: %w", ref.Path, ref.ID, err)
		}
		jobs = append(jobs, job)
	}
	bw.End()
	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("docstore: batch delete %s/%s: %w", refs[i].Path, refs[i].ID, err)
		}
	}
	return nil
}
