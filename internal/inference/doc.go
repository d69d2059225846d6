// Package inference owns the client handle for the language model runtime and
// exposes a single synchronous Ask operation. Files by concern:
//
//   - adapter.go: Adapter interface, Config and the New backend selector.
//   - ollama.go: native Ollama REST backend (POST /api/generate).
//   - openai.go: OpenAI-compatible chat completions via openai-go.
//   - llama.go / llama_stub.go: in-process go-llama.cpp backend, real only
//     with `-tags=llama`; the stub reports the dependency as unavailable.
//   - metrics.go: timeout, logging and Prometheus wrapper applied by New.
//   - errors.go: error types and predicates used for HTTP status mapping.
//
// The model identifier is fixed per Adapter. Callers never pick a model per
// request.
package inference
