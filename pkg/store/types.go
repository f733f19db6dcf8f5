package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrETagMismatch = errors.New("store: etag mismatch")

var ErrNotFound = errors.New("store: snapshot not found")

// Ref identifies one persisted snapshot: the qualified type path it was
// taken from plus a caller-chosen slot name, so one type can hold many
// named snapshots.
type Ref struct {
	Type string
	Name string
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one opaque snapshot blob for a single reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (blob []byte, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, blob []byte, meta Meta) (Meta, error)
}

// Identifier returns the canonical storage key for this reference.
func (r Ref) Identifier() (string, error) {
	if r.Type == "" {
		return "", fmt.Errorf("store: ref requires a type path")
	}
	if r.Name == "" {
		return "", fmt.Errorf("store: ref requires a slot name")
	}
	return fmt.Sprintf("%s/%s", r.Type, r.Name), nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
