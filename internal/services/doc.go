// Package services defines the shared error taxonomy for pipeline stages
// and service clients. Errors are tagged with sentinel markers so callers
// (the HTTP layer, the CLI) can classify failures without string matching.
package services
