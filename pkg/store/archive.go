package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	param "github.com/majidaldo/param"
	"github.com/majidaldo/param/pkg/activity"
)

// Mutator edits a loaded instance in place before Archive.Mutate saves
// it back.
type Mutator func(inst *param.Instance) error

// Archive couples a snapshot codec with a Store: instances go in, blobs
// hit the wire, and storage metadata comes back stamped. ETag handling
// is compare-and-swap: a caller-supplied ETag must match the stored one
// or the write fails with ErrETagMismatch.
type Archive struct {
	codec  *param.SnapshotCodec
	store  Store
	events *activity.Emitter
	now    func() time.Time
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*Archive)

// WithActivity wires an emitter that receives snapshot lifecycle events
// after successful loads, saves and mutations. Hook errors do not fail
// the storage call.
func WithActivity(emitter *activity.Emitter) ArchiveOption {
	return func(a *Archive) { a.events = emitter }
}

// NewArchive builds an archive over the given codec and store.
func NewArchive(codec *param.SnapshotCodec, st Store, opts ...ArchiveOption) (*Archive, error) {
	if codec == nil {
		return nil, fmt.Errorf("store: archive requires a snapshot codec")
	}
	if st == nil {
		return nil, fmt.Errorf("store: archive requires a store")
	}
	a := &Archive{codec: codec, store: st, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a, nil
}

func (a *Archive) emit(ctx context.Context, build func(activity.SnapshotEventInput) activity.Event, ref Ref, meta Meta) {
	if !a.events.Enabled() {
		return
	}
	objectID, _ := ref.Identifier()
	_ = a.events.Emit(ctx, build(activity.SnapshotEventInput{
		ObjectID:   objectID,
		TypePath:   ref.Type,
		SnapshotID: meta.SnapshotID,
		ETag:       meta.ETag,
		OccurredAt: meta.UpdatedAt,
	}))
}

// Load fetches and decodes the snapshot at ref. ok is false when the
// slot is empty.
func (a *Archive) Load(ctx context.Context, ref Ref) (*param.Instance, Meta, bool, error) {
	blob, meta, ok, err := a.store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, false, fmt.Errorf("store: load %q/%q: %w", ref.Type, ref.Name, err)
	}
	if !ok {
		return nil, Meta{}, false, nil
	}
	inst, err := a.codec.Decode(blob)
	if err != nil {
		return nil, meta, false, err
	}
	a.emit(ctx, activity.BuildSnapshotLoadedEvent, ref, meta)
	return inst, meta, true, nil
}

// Save encodes inst and writes it to ref. The saved metadata always
// carries a snapshot id and update time; callers that pass an ETag from
// a previous Load get optimistic concurrency for free.
func (a *Archive) Save(ctx context.Context, ref Ref, inst *param.Instance, meta Meta) (Meta, error) {
	_, current, ok, err := a.store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("store: load %q/%q: %w", ref.Type, ref.Name, err)
	}
	if ok && meta.ETag != "" && current.ETag != "" && meta.ETag != current.ETag {
		return current, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, current.ETag)
	}

	blob, err := a.codec.Encode(inst)
	if err != nil {
		return Meta{}, err
	}

	saveMeta := mergeMeta(current, meta)
	saveMeta.SnapshotID = uuid.NewString()
	saveMeta.ETag = saveMeta.SnapshotID
	saveMeta.UpdatedAt = a.now()

	saved, err := a.store.Save(ctx, ref, blob, saveMeta)
	if err != nil {
		return Meta{}, fmt.Errorf("store: save %q/%q: %w", ref.Type, ref.Name, err)
	}
	a.emit(ctx, activity.BuildSnapshotSavedEvent, ref, saved)
	return saved, nil
}

// Mutate loads the snapshot at ref, applies fn, then saves the edited
// instance under the same compare-and-swap rules as Save.
func (a *Archive) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (*param.Instance, Meta, error) {
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("store: mutator is required")
	}

	inst, loaded, ok, err := a.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, err
	}
	if !ok {
		return nil, Meta{}, fmt.Errorf("%w: %s/%s", ErrNotFound, ref.Type, ref.Name)
	}
	if meta.ETag != "" && loaded.ETag != "" && meta.ETag != loaded.ETag {
		return nil, loaded, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loaded.ETag)
	}

	if err := fn(inst); err != nil {
		return nil, loaded, err
	}

	saved, err := a.Save(ctx, ref, inst, Meta{ETag: loaded.ETag, Extra: meta.Extra})
	if err != nil {
		return nil, loaded, err
	}
	a.emit(ctx, activity.BuildSnapshotMutatedEvent, ref, saved)
	return inst, saved, nil
}
