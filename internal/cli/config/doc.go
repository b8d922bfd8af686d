// Package config defines the CLI configuration (~/.securenotes/cli.yaml)
// and loads it through confloader: file, then SECURENOTES_* environment,
// then command-line flags.
package config
