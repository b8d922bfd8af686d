// Package metric provides Prometheus instrumentation for the request
// dispatcher.
//
// Metrics live in a private registry owned by the CLI process; they are
// never served over HTTP. `securenotes-cli debug metrics` writes them in
// the Prometheus text exposition format.
package metric
