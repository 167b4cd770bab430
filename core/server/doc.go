// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// only defines the settings it reads: the listening port, the optional API key
// and the request read/write timeouts.
package server
