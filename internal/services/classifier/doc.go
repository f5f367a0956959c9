// Package classifier assigns categories and suggested names to files. It
// asks an OpenAI-compatible chat model for a structured classification and
// falls back to deterministic MIME-based rules when the model is
// unavailable or returns garbage.
package classifier
