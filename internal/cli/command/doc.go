// Package command provides CLI command definitions for securenotes-cli.
//
// Commands are built on urfave/cli/v2 and share one Runtime (config,
// token store, dispatcher, session) created by the app's Before hook:
//
//   - root.go: App, global flags, runtime wiring
//   - auth.go: signup, login, logout, status
//   - notes.go: notes list/get/create/update/delete
//   - config.go: config show/validate/path/init
//   - debug.go: debug metrics, version
//   - shell.go: interactive mode over the same app
package command
