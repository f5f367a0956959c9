// Package catalog persists file records and organization runs in SQLite.
// It is the single source of truth for what the library contains and which
// organize run owns each file.
package catalog
