// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Defaults already present in the target struct
//
// Watcher reports changes to the configuration file through fsnotify.
package confloader
