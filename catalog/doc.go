// Package catalog loads the internship catalog from its JSON source file.
// Loading is fail-fast: a file that does not parse or does not validate is
// rejected whole rather than partially loaded.
package catalog
