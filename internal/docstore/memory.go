package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory Store used in tests and local development. It
// supports the operator subset the repositories actually use: field equality,
// $in and $gte.
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]bson.M)}
}

func (s *Memory) FindOne(ctx context.Context, collection string, filter M, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return decodeInto(doc, out)
		}
	}
	return ErrNotFound
}

func (s *Memory) Find(ctx context.Context, collection string, filter M, opts *FindOptions, out any) error {
	s.mu.RLock()
	matched := make([]bson.M, 0)
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			matched = append(matched, doc)
		}
	}
	s.mu.RUnlock()

	if opts != nil && opts.SortField != "" {
		field, desc := opts.SortField, opts.SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i][field], matched[j][field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	if opts != nil && opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("find: out must be a pointer to a slice, got %T", out)
	}
	slice := rv.Elem()
	slice.Set(slice.Slice(0, 0))
	elemType := slice.Type().Elem()
	for _, doc := range matched {
		elem := reflect.New(elemType)
		if err := decodeInto(doc, elem.Interface()); err != nil {
			return err
		}
		slice.Set(reflect.Append(slice, elem.Elem()))
	}
	return nil
}

func (s *Memory) InsertOne(ctx context.Context, collection string, doc any) error {
	normalized, err := normalize(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], normalized)
	return nil
}

func (s *Memory) UpdateOne(ctx context.Context, collection string, filter M, set M, upsert bool) error {
	normalized, err := normalize(set)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			for k, v := range normalized {
				doc[k] = v
			}
			return nil
		}
	}
	if !upsert {
		return nil
	}

	doc := bson.M{}
	for k, v := range filter {
		if _, isOp := v.(map[string]any); !isOp {
			doc[k] = v
		}
	}
	for k, v := range normalized {
		doc[k] = v
	}
	s.collections[collection] = append(s.collections[collection], doc)
	return nil
}

func (s *Memory) Count(ctx context.Context, collection string, filter M) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

// normalize runs a document through bson so stored values have the same
// shapes a real Mongo roundtrip would produce.
func normalize(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func decodeInto(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

func matches(doc bson.M, filter M) bool {
	for field, cond := range filter {
		val := doc[field]
		ops, isOp := cond.(map[string]any)
		if !isOp {
			if compare(val, cond) != 0 {
				return false
			}
			continue
		}
		for op, arg := range ops {
			switch op {
			case "$in":
				if !containsValue(arg, val) {
					return false
				}
			case "$gte":
				if compare(val, arg) < 0 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}

func containsValue(list any, val any) bool {
	lv := reflect.ValueOf(list)
	if lv.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < lv.Len(); i++ {
		if compare(val, lv.Index(i).Interface()) == 0 {
			return true
		}
	}
	return false
}

func compare(a, b any) int {
	at, aok := asTime(a)
	bt, bok := asTime(b)
	if aok && bok {
		switch {
		case at.Before(bt):
			return -1
		case at.After(bt):
			return 1
		default:
			return 0
		}
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	default:
		return time.Time{}, false
	}
}
