// Package observability exposes session activity as Prometheus metrics and
// serves them, together with a health probe and the live session snapshot,
// over a small chi router.
package observability
