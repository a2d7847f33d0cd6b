package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type row struct {
	ID   int64
	Name string
}

func TestTable_InsertAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	tbl := TableFor[row](New(), "rows")

	first, err := tbl.Insert(ctx, func(id int64) row { return row{ID: id, Name: "a"} })
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, _ := tbl.Insert(ctx, func(id int64) row { return row{ID: id, Name: "b"} })

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if got := tbl.All(ctx); len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Errorf("unexpected rows: %+v", got)
	}
}

func TestTableFor_SameNameSharesTable(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, _ = TableFor[row](s, "rows").Insert(ctx, func(id int64) row { return row{ID: id} })

	if n := TableFor[row](s, "rows").Len(ctx); n != 1 {
		t.Errorf("expected shared table with 1 row, got %d", n)
	}
}

func TestTableFor_TypeMismatchPanics(t *testing.T) {
	s := New()
	TableFor[row](s, "rows")

	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	TableFor[string](s, "rows")
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	tbl := TableFor[row](s, "rows")
	seed, _ := tbl.Insert(ctx, func(id int64) row { return row{ID: id, Name: "seed"} })

	sentinel := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := tbl.Insert(ctx, func(id int64) row { return row{ID: id, Name: "new"} }); err != nil {
			return err
		}
		if _, err := tbl.Replace(ctx, seed.ID, row{ID: seed.ID, Name: "changed"}); err != nil {
			return err
		}
		if _, err := tbl.Delete(ctx, seed.ID); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}

	rows := tbl.All(ctx)
	if len(rows) != 1 || rows[0].Name != "seed" {
		t.Errorf("expected only the untouched seed row, got %+v", rows)
	}
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	s := New()
	tbl := TableFor[row](s, "rows")

	func() {
		defer func() { _ = recover() }()
		_ = s.WithinTx(ctx, func(ctx context.Context) error {
			_, _ = tbl.Insert(ctx, func(id int64) row { return row{ID: id} })
			panic("boom")
		})
	}()

	if n := tbl.Len(ctx); n != 0 {
		t.Errorf("expected empty table after panic, got %d rows", n)
	}
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()
	tbl := TableFor[row](s, "rows")

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.WithinTx(ctx, func(ctx context.Context) error {
			_, err := tbl.Insert(ctx, func(id int64) row { return row{ID: id} })
			return err
		}); err != nil {
			return err
		}
		return errors.New("outer fails")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := tbl.Len(ctx); n != 0 {
		t.Errorf("inner write should roll back with the outer tx, got %d rows", n)
	}
}

func TestWithinReadTx_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	tbl := TableFor[row](s, "rows")

	err := s.WithinReadTx(ctx, func(ctx context.Context) error {
		_, err := tbl.Insert(ctx, func(id int64) row { return row{ID: id} })
		return err
	})
	if !errors.Is(err, ErrReadOnlyTx) {
		t.Errorf("expected ErrReadOnlyTx, got %v", err)
	}

	err = s.WithinReadTx(ctx, func(ctx context.Context) error {
		return s.WithinTx(ctx, func(context.Context) error { return nil })
	})
	if !errors.Is(err, ErrReadOnlyTx) {
		t.Errorf("expected ErrReadOnlyTx for write tx nested in read tx, got %v", err)
	}
}

func TestReplaceAndDelete_ReportMissing(t *testing.T) {
	ctx := context.Background()
	tbl := TableFor[row](New(), "rows")

	if ok, err := tbl.Replace(ctx, 42, row{}); ok || err != nil {
		t.Errorf("replace missing: ok=%v err=%v", ok, err)
	}
	if ok, err := tbl.Delete(ctx, 42); ok || err != nil {
		t.Errorf("delete missing: ok=%v err=%v", ok, err)
	}
}

func TestWithinTx_CheckThenActIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := New()
	tbl := TableFor[row](s, "rows")

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(ctx context.Context) error {
				if _, exists := tbl.Find(ctx, func(r row) bool { return r.Name == "unique" }); exists {
					return errors.New("duplicate")
				}
				_, err := tbl.Insert(ctx, func(id int64) row { return row{ID: id, Name: "unique"} })
				return err
			})
		}()
	}
	wg.Wait()

	if n := tbl.Len(ctx); n != 1 {
		t.Errorf("expected exactly one row, got %d", n)
	}
}
