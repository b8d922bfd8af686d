// Package api is the typed client for the notes REST API. Every call goes
// through connection.HTTPClient, so credentials and 401 handling apply
// uniformly.
package api
