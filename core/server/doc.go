// Package server holds the HTTP server configuration.
//
// The start command reads the listen address and the graceful shutdown bound
// from this Config; the routes themselves are registered by feature loaders.
package server
