// Package artifact defines the per-stage generated payload shapes. The
// orchestrator treats these opaquely; only the provider adapters and the
// presentation surface look inside.
package artifact
