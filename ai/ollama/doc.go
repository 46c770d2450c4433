// Package ollama implements the local-completion provider variant against a
// self-hosted generate endpoint such as Ollama's /api/generate.
package ollama
