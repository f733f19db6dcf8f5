package activity

import (
	"strings"
	"time"
)

// SnapshotEventInput describes the common fields for snapshot lifecycle
// events emitted around codec and storage calls.
type SnapshotEventInput struct {
	ActorID    string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	TypePath   string
	SnapshotID string
	ETag       string
	OccurredAt time.Time
}

// BuildSnapshotSavedEvent constructs a normalized event for a snapshot write.
func BuildSnapshotSavedEvent(input SnapshotEventInput) Event {
	return buildSnapshotEvent("snapshot.saved", input)
}

// BuildSnapshotLoadedEvent constructs a normalized event for a snapshot read.
func BuildSnapshotLoadedEvent(input SnapshotEventInput) Event {
	return buildSnapshotEvent("snapshot.loaded", input)
}

// BuildSnapshotMutatedEvent constructs a normalized event for an in-place edit.
func BuildSnapshotMutatedEvent(input SnapshotEventInput) Event {
	return buildSnapshotEvent("snapshot.mutated", input)
}

func buildSnapshotEvent(verb string, input SnapshotEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.TypePath != "" {
		metadata = ensureMetadata(metadata)
		metadata["type_path"] = input.TypePath
	}
	if input.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.SnapshotID
	}
	if input.ETag != "" {
		metadata = ensureMetadata(metadata)
		metadata["etag"] = input.ETag
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.TypePath)
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		ObjectType: "snapshot",
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
