// Package config loads the application configuration from environment
// variables and an optional .env file.
//
// Configuration is assembled from per-package partial configs (server,
// engine, log, storage, capture), each declaring its keys and defaults
// through mapstructure and default struct tags. Environment variables
// map onto nested keys by underscore replacement, e.g. SERVER_PORT
// sets server.port and CAPTURE_ENABLED sets capture.enabled.
package config
