// Package token derives non-reversible labels for bearer credentials.
//
// The CLI never prints or logs an access token. Where a credential must
// be told apart from another (status output, debug logs), its fingerprint
// is shown instead:
//
//	sha256:3f2a9c01b7de
package token
