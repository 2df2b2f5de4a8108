// Package httpapi provides the shared retrying HTTP client and the JSON
// repair helpers used by the provider adapters.
package httpapi
