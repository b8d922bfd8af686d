// Package tlsroots builds the client TLS configuration used to reach the
// notes API: system roots plus an optional custom CA bundle.
package tlsroots
