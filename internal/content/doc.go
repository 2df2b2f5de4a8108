// Package content persists generated stage artifacts in SQLite. Each item
// holds one JSON blob keyed by stage, saves append to an immutable history
// table, and identifiers that predate the per-item record fall through to a
// legacy per-stage shape.
package content
