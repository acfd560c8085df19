package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity stores values of type T as JSON under prefix+id, with optional
// unique secondary indexes under prefix+"idx:"+name+":"+key.
type Entity[T any] struct {
	store    *Badger
	prefix   string
	notFound error
	indexes  []Index[T]
}

// Index is a unique secondary index.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string
	conflict        error
}

// NewEntity creates an entity stored under prefix. notFound is returned for
// missing ids; nil means ErrNotFound.
func NewEntity[T any](s *Badger, prefix string, notFound error) *Entity[T] {
	if notFound == nil {
		notFound = ErrNotFound
	}
	return &Entity[T]{store: s, prefix: prefix, notFound: notFound}
}

// WithIndex adds a unique secondary index. Lookups pass through
// lookupTransform when set. conflict is returned when two values collide;
// nil means ErrAlreadyExists.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string, lookupTransform func(string) string, conflict error) *Entity[T] {
	if conflict == nil {
		conflict = ErrAlreadyExists
	}
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
		conflict:        conflict,
	})
	return e
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

func (e *Entity[T]) indexKey(name, value string) []byte {
	return []byte(e.prefix + "idx:" + name + ":" + value)
}

// Create stores a new entity. It fails with ErrAlreadyExists when id is
// taken and with the index's conflict error when an index key is.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.update(ctx, func(txn *badger.Txn) error {
		return e.create(txn, id, entity)
	})
}

func (e *Entity[T]) create(txn *badger.Txn, id string, entity *T) error {
	_, err := txn.Get(e.key(id))
	if err == nil {
		return ErrAlreadyExists
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("check existing key: %w", err)
	}
	return e.put(txn, id, nil, entity)
}

// Get retrieves an entity by id.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = e.get(txn, id)
		return err
	})
	return out, err
}

func (e *Entity[T]) get(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(e.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, e.notFound
	}
	if err != nil {
		return nil, fmt.Errorf("get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entity)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s entity: %w", strings.TrimSuffix(e.prefix, ":"), err)
	}
	return &entity, nil
}

// GetByIndex retrieves an entity through a secondary index.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, idx := range e.indexes {
		if idx.name == indexName && idx.lookupTransform != nil {
			value = idx.lookupTransform(value)
			break
		}
	}

	var out *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(indexName, value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return e.notFound
		}
		if err != nil {
			return fmt.Errorf("get index key: %w", err)
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		out, err = e.get(txn, string(id))
		return err
	})
	return out, err
}

// Mutate applies fn to the stored entity and writes it back in the same
// transaction. Index keys are moved when fn changes them. Write conflicts
// with concurrent transactions are retried, so fn may run more than once.
func (e *Entity[T]) Mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out *T
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		old, err := e.get(txn, id)
		if err != nil {
			return err
		}
		next, err := e.get(txn, id)
		if err != nil {
			return err
		}
		if err := fn(next); err != nil {
			return err
		}
		if err := e.put(txn, id, old, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Replace overwrites an existing entity.
func (e *Entity[T]) Replace(ctx context.Context, id string, entity *T) error {
	_, err := e.Mutate(ctx, id, func(stored *T) error {
		*stored = *entity
		return nil
	})
	return err
}

// put writes entity and its index keys. old holds the previous value for
// index maintenance; nil on create.
func (e *Entity[T]) put(txn *badger.Txn, id string, old, entity *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}

	for _, idx := range e.indexes {
		oldKeys := map[string]bool{}
		if old != nil {
			for _, k := range idx.keyGen(old) {
				oldKeys[k] = true
			}
		}
		newKeys := map[string]bool{}
		for _, k := range idx.keyGen(entity) {
			newKeys[k] = true
			if oldKeys[k] {
				continue
			}
			_, err := txn.Get(e.indexKey(idx.name, k))
			if err == nil {
				return idx.conflict
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check index key: %w", err)
			}
		}
		for k := range oldKeys {
			if newKeys[k] {
				continue
			}
			if err := txn.Delete(e.indexKey(idx.name, k)); err != nil {
				return fmt.Errorf("delete old index key: %w", err)
			}
		}
		for k := range newKeys {
			if err := txn.Set(e.indexKey(idx.name, k), []byte(id)); err != nil {
				return fmt.Errorf("set index key: %w", err)
			}
		}
	}

	if err := txn.Set(e.key(id), data); err != nil {
		return fmt.Errorf("set key: %w", err)
	}
	return nil
}

// Delete removes an entity and its index keys. Missing ids are not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.update(ctx, func(txn *badger.Txn) error {
		return e.delete(txn, id)
	})
}

func (e *Entity[T]) delete(txn *badger.Txn, id string) error {
	entity, err := e.get(txn, id)
	if errors.Is(err, e.notFound) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, idx := range e.indexes {
		for _, k := range idx.keyGen(entity) {
			if err := txn.Delete(e.indexKey(idx.name, k)); err != nil {
				return fmt.Errorf("delete index key: %w", err)
			}
		}
	}
	if err := txn.Delete(e.key(id)); err != nil {
		return fmt.Errorf("delete key: %w", err)
	}
	return nil
}

// List iterates over all entities in key order.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		prefix := []byte(e.prefix)
		indexPrefix := e.prefix + "idx:"

		err := e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}
				item := it.Item()
				if strings.HasPrefix(string(item.Key()), indexPrefix) {
					continue
				}

				var entity T
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				}); err != nil {
					return fmt.Errorf("unmarshal entity: %w", err)
				}
				if !yield(&entity, nil) {
					return errStopIteration
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(nil, err)
		}
	}
}

var errStopIteration = errors.New("stop iteration")
