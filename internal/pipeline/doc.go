// Package pipeline orchestrates the content generation stages: prerequisite
// gating, provider fallback, save-on-generate, and stage navigation.
package pipeline
