// Package server holds the HTTP server configuration shared by the
// serve command and the feature handlers.
package server
