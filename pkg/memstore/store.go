// Package memstore is the volatile reference store. A Store is one
// synchronization domain: every Table registered on it shares the Store's
// lock, so a transaction spanning several tables is atomic with respect to
// all of them.
//
// Like pkg/database, transactions travel inside context.Context and nested
// WithinTx/WithinReadTx calls join the outer transaction. Writes performed
// inside a failed transaction are undone in reverse order.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrReadOnlyTx is returned when a write is attempted inside WithinReadTx.
var ErrReadOnlyTx = errors.New("memstore: write inside read-only transaction")

// Store owns the lock shared by all of its tables.
type Store struct {
	mu sync.RWMutex

	tablesMu sync.Mutex
	tables   map[string]any
}

type txKey struct{}

type txState struct {
	readOnly bool
	undo     []func()
}

// New returns an empty Store.
func New() *Store {
	return &Store{tables: make(map[string]any)}
}

// WithinTx runs fn holding the exclusive lock. If fn returns an error (or
// panics) every write it made is reverted.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if st := stateFrom(ctx); st != nil {
		if st.readOnly {
			return ErrReadOnlyTx
		}
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := &txState{}
	defer func() {
		if p := recover(); p != nil {
			st.rollback()
			panic(p)
		}
		if err != nil {
			st.rollback()
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, st))
}

// WithinReadTx runs fn holding the shared lock, giving it a consistent view
// of every table.
func (s *Store) WithinReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if stateFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(context.WithValue(ctx, txKey{}, &txState{readOnly: true}))
}

// Ping always succeeds; it lets the store stand in for a health-checked dependency.
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) read(ctx context.Context, fn func()) {
	if stateFrom(ctx) != nil {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// write runs fn under the exclusive lock. fn returns the closure that reverts
// its change; it is kept only while a transaction is open.
func (s *Store) write(ctx context.Context, fn func() (undo func(), err error)) error {
	if st := stateFrom(ctx); st != nil {
		if st.readOnly {
			return ErrReadOnlyTx
		}
		undo, err := fn()
		if err != nil {
			return err
		}
		if undo != nil {
			st.undo = append(st.undo, undo)
		}
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fn()
	return err
}

func (st *txState) rollback() {
	for i := len(st.undo) - 1; i >= 0; i-- {
		st.undo[i]()
	}
	st.undo = nil
}

func stateFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

// Table is an id-keyed collection of V living in a Store. Identifiers are
// assigned from a per-table sequence starting at 1 and are never reused.
type Table[V any] struct {
	store *Store
	name  string
	rows  map[int64]V
	seq   int64
}

// TableFor returns the table registered under name, creating it on first use.
// Every caller asking for the same name gets the same table; asking for it
// with a different V panics.
func TableFor[V any](s *Store, name string) *Table[V] {
	s.tablesMu.Lock()
	defer s.tablesMu.Unlock()

	if existing, ok := s.tables[name]; ok {
		t, ok := existing.(*Table[V])
		if !ok {
			panic(fmt.Sprintf("memstore: table %q registered with a different row type", name))
		}
		return t
	}
	t := &Table[V]{store: s, name: name, rows: make(map[int64]V)}
	s.tables[name] = t
	return t
}

// Get returns the row stored under id.
func (t *Table[V]) Get(ctx context.Context, id int64) (V, bool) {
	var (
		v  V
		ok bool
	)
	t.store.read(ctx, func() {
		v, ok = t.rows[id]
	})
	return v, ok
}

// All returns every row ordered by id.
func (t *Table[V]) All(ctx context.Context) []V {
	var out []V
	t.store.read(ctx, func() {
		ids := make([]int64, 0, len(t.rows))
		for id := range t.rows {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out = make([]V, 0, len(ids))
		for _, id := range ids {
			out = append(out, t.rows[id])
		}
	})
	return out
}

// Find returns the first row (in id order) matching pred.
func (t *Table[V]) Find(ctx context.Context, pred func(V) bool) (V, bool) {
	for _, v := range t.All(ctx) {
		if pred(v) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Insert assigns the next id, builds the row with it and stores it.
func (t *Table[V]) Insert(ctx context.Context, build func(id int64) V) (V, error) {
	var v V
	err := t.store.write(ctx, func() (func(), error) {
		t.seq++
		id := t.seq
		v = build(id)
		t.rows[id] = v
		return func() { delete(t.rows, id) }, nil
	})
	return v, err
}

// Replace overwrites an existing row. It reports false when id is absent.
func (t *Table[V]) Replace(ctx context.Context, id int64, v V) (bool, error) {
	found := false
	err := t.store.write(ctx, func() (func(), error) {
		prev, ok := t.rows[id]
		if !ok {
			return nil, nil
		}
		found = true
		t.rows[id] = v
		return func() { t.rows[id] = prev }, nil
	})
	return found, err
}

// Delete removes a row. It reports false when id is absent.
func (t *Table[V]) Delete(ctx context.Context, id int64) (bool, error) {
	found := false
	err := t.store.write(ctx, func() (func(), error) {
		prev, ok := t.rows[id]
		if !ok {
			return nil, nil
		}
		found = true
		delete(t.rows, id)
		return func() { t.rows[id] = prev }, nil
	})
	return found, err
}

// Len returns the number of rows.
func (t *Table[V]) Len(ctx context.Context) int {
	n := 0
	t.store.read(ctx, func() { n = len(t.rows) })
	return n
}
