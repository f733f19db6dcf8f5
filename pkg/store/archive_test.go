package store_test

import (
	"context"
	"errors"
	"testing"

	param "github.com/majidaldo/param"
	"github.com/majidaldo/param/pkg/store"
)

func testArchive(t *testing.T) (*store.Archive, *param.Type) {
	t.Helper()
	typ := param.MustType("Run", []*param.Field{
		{Name: "a", Kind: param.IntegerKind{}, Default: 5},
		{Name: "label", Kind: param.StringKind{}, Default: "baseline"},
	}, param.WithNamespace("sim"))

	registry, err := param.NewTypeRegistry(typ)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	codec, err := param.NewSnapshotCodec(registry)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	archive, err := store.NewArchive(codec, store.NewMemoryStore())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	return archive, typ
}

func TestArchiveSaveLoad(t *testing.T) {
	archive, typ := testArchive(t)
	ctx := context.Background()
	ref := store.Ref{Type: typ.Path(), Name: "run-1"}

	inst, err := typ.New(map[string]any{"a": 9})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	saved, err := archive.Save(ctx, ref, inst, store.Meta{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.SnapshotID == "" || saved.ETag == "" || saved.UpdatedAt.IsZero() {
		t.Fatalf("metadata not stamped: %+v", saved)
	}

	loaded, meta, ok, err := archive.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if meta.SnapshotID != saved.SnapshotID {
		t.Fatalf("snapshot id = %q, want %q", meta.SnapshotID, saved.SnapshotID)
	}
	got, err := loaded.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 9 {
		t.Fatalf("a = %v, want 9", got)
	}
}

func TestArchiveETagMismatch(t *testing.T) {
	archive, typ := testArchive(t)
	ctx := context.Background()
	ref := store.Ref{Type: typ.Path(), Name: "run-1"}

	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	first, err := archive.Save(ctx, ref, inst, store.Meta{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	// Second writer advances the record.
	if _, err := archive.Save(ctx, ref, inst, store.Meta{ETag: first.ETag}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if _, err := archive.Save(ctx, ref, inst, store.Meta{ETag: first.ETag}); !errors.Is(err, store.ErrETagMismatch) {
		t.Fatalf("stale save error = %v, want ErrETagMismatch", err)
	}
}

func TestArchiveMutate(t *testing.T) {
	archive, typ := testArchive(t)
	ctx := context.Background()
	ref := store.Ref{Type: typ.Path(), Name: "run-1"}

	if _, _, err := archive.Mutate(ctx, ref, store.Meta{}, func(inst *param.Instance) error {
		return inst.Set("a", 7)
	}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("mutate on empty slot = %v, want ErrNotFound", err)
	}

	inst, err := typ.New(nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := archive.Save(ctx, ref, inst, store.Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	edited, meta, err := archive.Mutate(ctx, ref, store.Meta{}, func(in *param.Instance) error {
		return in.Set("a", 12)
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if meta.SnapshotID == "" {
		t.Fatalf("mutate metadata not stamped: %+v", meta)
	}
	got, err := edited.Get("a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 12 {
		t.Fatalf("a = %v, want 12", got)
	}

	// Invalid edits surface the field validation error and skip the save.
	if _, _, err := archive.Mutate(ctx, ref, store.Meta{}, func(in *param.Instance) error {
		return in.Set("a", "not a number")
	}); err == nil {
		t.Fatalf("expected validation error from mutator")
	}
}
