// Package buildinfo exposes the version stamped into the binary.
//
//	go build -ldflags "-X github.com/yndnr/securenotes-go/internal/infra/buildinfo.Version=v1.0.0"
//
// Unstamped builds fall back to the VCS data the Go toolchain embeds.
package buildinfo
