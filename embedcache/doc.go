// Package embedcache builds and maintains the persistent embedding cache
// that backs ranking. It embeds catalog items whose vectors are missing
// (or unreadable, or written by a different model), persists them, and
// assembles the similarity matrix in catalog order. Cached vectors are
// immutable: once an id has a readable vector for the current model it is
// reused verbatim on every later run, even if the item's text has since
// changed. Audit reports such content drift; only an explicit Rebuild
// recomputes vectors.
package embedcache
