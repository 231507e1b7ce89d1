// Package engine implements the multi-model serving core: a bounded cache
// of loaded models keyed by artifact identifier, a loader that fetches and
// constructs models on first use with per-identifier coalescing, and the
// invocation router that front-ends both.
//
// Models are never mutated in place. A replacement ships under a new
// identifier; the old slot stays servable until evicted. The engine
// therefore has no update operation, only load-by-identifier.
package engine
