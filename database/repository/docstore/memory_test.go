package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFieldsMissingDocument(t *testing.T) {
	c := NewMemoryClient()
	err := c.UpdateFields(context.Background(), "things", "nope", []FieldUpdate{
		{Path: []string{"a"}, Value: 1},
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteFieldSentinel(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	require.NoError(t, c.SetDocument(ctx, "things", "t1", map[string]any{
		"keep": "yes",
		"drop": "no",
		"nested": map[string]any{
			"keep": 1,
			"drop": 2,
		},
	}, false))

	err := c.UpdateFields(ctx, "things", "t1", []FieldUpdate{
		{Path: []string{"drop"}, Value: DeleteField},
		{Path: []string{"nested", "drop"}, Value: DeleteField},
	})
	require.NoError(t, err)

	doc, err := c.GetDocument(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "yes", doc["keep"])
	assert.NotContains(t, doc, "drop")
	nested := doc["nested"].(map[string]any)
	assert.Equal(t, 1, nested["keep"])
	assert.NotContains(t, nested, "drop")
}

func TestSetDocumentMergePreservesSiblings(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	require.NoError(t, c.SetDocument(ctx, "shards", "s1", map[string]any{
		"items": map[string]any{"a": map[string]any{"title": "first"}},
	}, false))
	require.NoError(t, c.SetDocument(ctx, "shards", "s1", map[string]any{
		"items": map[string]any{"b": map[string]any{"title": "second"}},
	}, true))

	doc, err := c.GetDocument(ctx, "shards", "s1")
	require.NoError(t, err)
	items := doc["items"].(map[string]any)
	assert.Len(t, items, 2)
}

func TestQueryEqualsDottedPath(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	_, err := c.CreateDocument(ctx, "notifications", map[string]any{
		"userId": "u1",
		"data":   map[string]any{"checklistId": "c1"},
	})
	require.NoError(t, err)
	_, err = c.CreateDocument(ctx, "notifications", map[string]any{
		"userId": "u2",
		"data":   map[string]any{"checklistId": "c1"},
	})
	require.NoError(t, err)

	docs, err := c.QueryEquals(ctx, "notifications", map[string]any{
		"data.checklistId": "c1",
		"userId":           "u1",
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "u1", docs[0].Data["userId"])
}

func TestQueryTimeRange(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := c.CreateDocument(ctx, "notifications", map[string]any{
			"scheduledFor": base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	docs, err := c.Query(ctx, "notifications", []Filter{
		{Field: "scheduledFor", Op: ">=", Value: base},
		{Field: "scheduledFor", Op: "<=", Value: base.Add(time.Hour)},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestBatchDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	id1, _ := c.CreateDocument(ctx, "notifications", map[string]any{"n": 1})
	id2, _ := c.CreateDocument(ctx, "notifications", map[string]any{"n": 2})

	err := c.BatchDelete(ctx, []Ref{
		{Path: "notifications", ID: id1},
		{Path: "notifications", ID: id2},
	})
	require.NoError(t, err)

	docs, err := c.QueryEquals(ctx, "notifications", nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
