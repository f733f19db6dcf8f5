// Package store defines persistence-facing contracts for loading and
// saving encoded instance snapshots, plus an Archive that couples a
// snapshot codec with a Store.
//
// Responsibilities:
//   - Store only loads/saves one opaque blob for a single Ref.
//   - Archive encodes/decodes instances at the boundary, stamps
//     storage-owned metadata (snapshot id, etag, update time) and
//     enforces compare-and-swap on Save when the caller supplies an
//     expected etag.
//   - The core param package stays persistence-agnostic; all storage
//     logic lives behind Store implementations supplied by consumers.
//
// Deterministic keys:
//
//	Ref.Identifier() provides a canonical storage key of the form
//	<qualified type path>/<slot name>.
package store
