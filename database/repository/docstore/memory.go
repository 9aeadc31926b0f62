package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryClient is an in-memory Client used by tests. It mirrors the
// store's semantics that the engine depends on: ErrNotFound from
// partial updates of absent documents, the DeleteField sentinel, deep
// merge on SetDocument, and equality/range queries over dotted paths.
type MemoryClient struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any
	seq  int
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{data: make(map[string]map[string]map[string]any)}
}

func (c *MemoryClient) collection(path string) map[string]map[string]any {
	col, ok := c.data[path]
	if !ok {
		col = make(map[string]map[string]any)
		c.data[path] = col
	}
	return col
}

func (c *MemoryClient) GetDocument(ctx context.Context, path, id string) (map[string]any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.data[path][id]
	if !ok {
		return nil, ErrNotFound
	}
	return deepCopy(doc), nil
}

func (c *MemoryClient) SetDocument(ctx context.Context, path, id string, data map[string]any, merge bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	col := c.collection(path)
	if !merge {
		col[id] = deepCopy(data)
		return nil
	}
	doc, ok := col[id]
	if !ok {
		doc = make(map[string]any)
		col[id] = doc
	}
	deepMerge(doc, data)
	return nil
}

func (c *MemoryClient) UpdateFields(ctx context.Context, path, id string, updates []FieldUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.data[path][id]
	if !ok {
		return ErrNotFound
	}
	for _, u := range updates {
		if len(u.Path) == 0 {
			return fmt.Errorf("docstore: empty field path for %s/%s", path, id)
		}
		applyUpdate(doc, u.Path, u.Value)
	}
	return nil
}

func (c *MemoryClient) CreateDocument(ctx context.Context, path string, data map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	id := fmt.Sprintf("doc-%04d", c.seq)
	c.collection(path)[id] = deepCopy(data)
	return id, nil
}

func (c *MemoryClient) DeleteDocument(ctx context.Context, path, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data[path], id)
	return nil
}

func (c *MemoryClient) QueryEquals(ctx context.Context, path string, filters map[string]any) ([]Document, error) {
	fs := make([]Filter, 0, len(filters))
	for field, value := range filters {
		fs = append(fs, Filter{Field: field, Op: "==", Value: value})
	}
	return c.Query(ctx, path, fs)
}

func (c *MemoryClient) Query(ctx context.Context, path string, filters []Filter) ([]Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var docs []Document
	for id, doc := range c.data[path] {
		match := true
		for _, f := range filters {
			got, ok := lookupPath(doc, f.Field)
			if !ok || !compare(got, f.Op, f.Value) {
				match = false
				break
			}
		}
		if match {
			docs = append(docs, Document{ID: id, Data: deepCopy(doc)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (c *MemoryClient) BatchDelete(ctx context.Context, refs []Ref) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ref := range refs {
		delete(c.data[ref.Path], ref.ID)
	}
	return nil
}

func applyUpdate(doc map[string]any, path []string, value any) {
	for _, seg := range path[:len(path)-1] {
		next, ok := doc[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			doc[seg] = next
		}
		doc = next
	}
	leaf := path[len(path)-1]
	if _, ok := value.(deleteSentinel); ok {
		delete(doc, leaf)
		return
	}
	doc[leaf] = deepCopyValue(value)
}

func lookupPath(doc map[string]any, dotted string) (any, bool) {
	segs := strings.Split(dotted, ".")
	var cur any = doc
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func compare(got any, op string, want any) bool {
	if gt, ok := got.(time.Time); ok {
		wt, ok := want.(time.Time)
		if !ok {
			return false
		}
		switch op {
		case "==":
			return gt.Equal(wt)
		case "<":
			return gt.Before(wt)
		case "<=":
			return gt.Before(wt) || gt.Equal(wt)
		case ">":
			return gt.After(wt)
		case ">=":
			return gt.After(wt) || gt.Equal(wt)
		}
		return false
	}
	if gf, gok := toFloat(got); gok {
		wf, wok := toFloat(want)
		if !wok {
			return false
		}
		switch op {
		case "==":
			return gf == wf
		case "<":
			return gf < wf
		case "<=":
			return gf <= wf
		case ">":
			return gf > wf
		case ">=":
			return gf >= wf
		}
		return false
	}
	if gs, ok := got.(string); ok {
		ws, ok := want.(string)
		if !ok {
			return false
		}
		switch op {
		case "==":
			return gs == ws
		case "<":
			return gs < ws
		case "<=":
			return gs <= ws
		case ">":
			return gs > ws
		case ">=":
			return gs >= ws
		}
		return false
	}
	return op == "==" && reflect.DeepEqual(got, want)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func deepCopy(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopy(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = deepCopyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				deepMerge(dv, sv)
				continue
			}
		}
		dst[k] = deepCopyValue(v)
	}
}
