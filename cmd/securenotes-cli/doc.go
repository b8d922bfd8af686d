// Package main provides the entry point for securenotes-cli.
//
// securenotes-cli is a command-line client for the Secure Notes API. It
// keeps the access token in a local store and supports both single-command
// mode and an interactive shell.
package main
