// Package output renders command results and user-facing notices.
//
// Results go to stdout as a table, JSON, or YAML. Notices (the CLI's
// equivalent of toasts) go to stderr, colored when the terminal allows.
package output
