package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgerror"
)

func TestInMemoryStore_Create_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, time.Hour)
	session := &entity.Session{ID: "session-1"}

	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create() err = %v", err)
	}

	err := store.Create(ctx, session)
	if err == nil {
		t.Fatal("Create() expected error, got nil")
	}

	var perr *pkgerror.Error
	if !errors.As(err, &perr) {
		t.Fatalf("Create() expected pkgerror.Error, got %T", err)
	}

	if perr.Code() != pkgerror.CodeConflict {
		t.Fatalf("Create() error code = %v, want %v", perr.Code(), pkgerror.CodeConflict)
	}
}

func TestInMemoryStore_Update_And_View(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, time.Hour)
	session := &entity.Session{ID: "session-2"}

	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create() err = %v", err)
	}

	err := store.Update(ctx, session.ID, func(s *entity.Session) error {
		s.PutArtifact(&entity.Artifact{ID: "1", SourceName: "a.csv", Target: entity.FormatJSON})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() err = %v", err)
	}

	var count int
	err = store.View(ctx, session.ID, func(s *entity.Session) error {
		count = len(s.Artifacts)
		return nil
	})
	if err != nil {
		t.Fatalf("View() err = %v", err)
	}

	if count != 1 {
		t.Fatalf("View() artifacts = %d, want 1", count)
	}
}

func TestInMemoryStore_Update_PropagatesError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, time.Hour)
	if err := store.Create(ctx, &entity.Session{ID: "session-3"}); err != nil {
		t.Fatalf("Create() err = %v", err)
	}

	want := errors.New("boom")
	err := store.Update(ctx, "session-3", func(*entity.Session) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("Update() err = %v, want %v", err, want)
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, time.Hour)
	if err := store.Create(ctx, &entity.Session{ID: "session-4"}); err != nil {
		t.Fatalf("Create() err = %v", err)
	}

	if err := store.Delete(ctx, "session-4"); err != nil {
		t.Fatalf("Delete() err = %v", err)
	}

	if err := store.Delete(ctx, "session-4"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("Delete() second err = %v, want ErrNotFound", err)
	}

	err := store.View(ctx, "session-4", func(*entity.Session) error { return nil })
	if !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("View() err = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_Capacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(2, time.Hour)

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, &entity.Session{ID: id}); err != nil {
			t.Fatalf("Create(%s) err = %v", id, err)
		}
	}

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}

	err := store.View(ctx, "a", func(*entity.Session) error { return nil })
	if !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("View(a) err = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, 50*time.Millisecond)
	if err := store.Create(ctx, &entity.Session{ID: "short"}); err != nil {
		t.Fatalf("Create() err = %v", err)
	}

	time.Sleep(120 * time.Millisecond)

	err := store.View(ctx, "short", func(*entity.Session) error { return nil })
	if !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("View() err = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStore_Close(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, time.Hour)
	if err := store.Create(ctx, &entity.Session{ID: "x"}); err != nil {
		t.Fatalf("Create() err = %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close() err = %v", err)
	}

	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}

func TestInMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewInMemoryStore(10, time.Hour)

	t.Run("View", func(t *testing.T) {
		err := store.View(ctx, "missing", func(*entity.Session) error { return nil })
		if !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("View() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		err := store.Update(ctx, "missing", func(*entity.Session) error { return nil })
		if !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("Update() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "missing"); !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("Delete() err = %v, want ErrNotFound", err)
		}
	})
}
