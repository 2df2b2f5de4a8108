// Package services provides the shared vocabulary for external provider
// integrations: classified failure markers, error wrapping helpers, and
// context carriers for correlation metadata.
package services
