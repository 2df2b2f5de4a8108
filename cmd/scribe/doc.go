// Command scribe is the CLI for the keyword-to-content generation pipeline:
// item creation, per-stage generation with provider fallback, navigation
// status, and blog export.
package main
